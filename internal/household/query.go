package household

import (
	"sort"

	"github.com/dukerupert/chorechamp/internal/chore"
	"github.com/dukerupert/chorechamp/internal/model"
)

// Leaderboard ranks members by points, highest first. Ties keep the order in
// which members were added.
func (s *State) Leaderboard() []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]model.LeaderboardEntry, len(s.members))
	for i, m := range s.members {
		done := 0
		for _, c := range s.chores {
			if c.IsCompleted && c.IsAssignedTo(m.ID) {
				done++
			}
		}
		entries[i] = model.LeaderboardEntry{Member: m, ChoresCompleted: done}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Member.Points > entries[j].Member.Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ListChores returns the chores passing filter and search, annotated with
// their status and the names of their place and assignee, in display order.
func (s *State) ListChores(f chore.Filter, search string) []chore.ChoreWithStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	placeNames := make(map[string]string, len(s.places))
	for _, p := range s.places {
		placeNames[p.ID] = p.Name
	}
	memberNames := make(map[string]string, len(s.members))
	for _, m := range s.members {
		memberNames[m.ID] = m.Name
	}

	out := []chore.ChoreWithStatus{}
	for _, c := range s.chores {
		if !chore.Matches(c, f, search) {
			continue
		}
		cw := chore.ChoreWithStatus{
			Chore:  cloneChore(c),
			Status: chore.ComputeStatus(c, today),
		}
		if c.PlaceID != nil {
			cw.PlaceName = placeNames[*c.PlaceID]
		}
		if c.AssignedTo != nil {
			cw.MemberName = memberNames[*c.AssignedTo]
		}
		out = append(out, cw)
	}
	chore.Sort(out)
	return out
}
