package household

import (
	"context"

	"github.com/dukerupert/chorechamp/internal/model"
)

// adjust adds delta to the member's points, clamping the result at zero.
// It is the single place member points change. A nil or unknown member id is
// ignored. The return value reports whether a member was updated.
func (s *State) adjust(memberID *string, delta int) bool {
	if memberID == nil || delta == 0 {
		return false
	}
	i := s.memberIndex(*memberID)
	if i < 0 {
		return false
	}
	s.members[i].Points = max(0, s.members[i].Points+delta)
	return true
}

func (s *State) choreIndex(id string) int {
	for i := range s.chores {
		if s.chores[i].ID == id {
			return i
		}
	}
	return -1
}

// AddChore creates an incomplete chore. The input is expected to be validated
// already: a non-blank name and positive points.
func (s *State) AddChore(ctx context.Context, in model.ChoreInput) model.Chore {
	s.mu.Lock()
	c := model.Chore{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Points:      in.Points,
		AssignedTo:  clonePtr(in.AssignedTo),
		DueDate:     clonePtr(in.DueDate),
		Frequency:   model.ParseFrequency(string(in.Frequency)),
		PlaceID:     clonePtr(in.PlaceID),
	}
	s.chores = append(s.chores, c)
	s.persist(ctx, KeyChores, s.chores)
	s.mu.Unlock()

	s.notify(Change{Entity: "chore", Action: "created", ID: c.ID})
	return cloneChore(c)
}

// EditChore replaces the stored chore with the same id. Member points follow
// the completion transition between the stored and the updated chore:
//
//   - completed to completed: when points or assignee differ, the original
//     points are taken from the original assignee and the updated points are
//     given to the updated assignee.
//   - completed to incomplete: the original points are taken back.
//   - incomplete to completed: the updated points are credited.
//   - incomplete to incomplete: no change.
//
// An unknown id is a no-op and reports false.
func (s *State) EditChore(ctx context.Context, updated model.Chore) (model.Chore, bool) {
	s.mu.Lock()

	i := s.choreIndex(updated.ID)
	if i < 0 {
		s.mu.Unlock()
		return model.Chore{}, false
	}
	orig := s.chores[i]
	next := cloneChore(updated)
	next.Frequency = model.ParseFrequency(string(next.Frequency))

	membersChanged := false
	switch {
	case orig.IsCompleted && next.IsCompleted:
		if orig.Points != next.Points || !sameID(orig.AssignedTo, next.AssignedTo) {
			if s.adjust(orig.AssignedTo, -orig.Points) {
				membersChanged = true
			}
			if s.adjust(next.AssignedTo, next.Points) {
				membersChanged = true
			}
		}
		if next.CompletedAt == nil {
			next.CompletedAt = orig.CompletedAt
		}
	case orig.IsCompleted:
		membersChanged = s.adjust(orig.AssignedTo, -orig.Points)
		next.CompletedAt = nil
	case next.IsCompleted:
		membersChanged = s.adjust(next.AssignedTo, next.Points)
		if next.CompletedAt == nil {
			now := s.now()
			next.CompletedAt = &now
		}
	default:
		next.CompletedAt = nil
	}

	s.chores[i] = next
	s.persist(ctx, KeyChores, s.chores)
	if membersChanged {
		s.persist(ctx, KeyMembers, s.members)
	}
	s.mu.Unlock()

	s.notify(Change{Entity: "chore", Action: "updated", ID: next.ID})
	return cloneChore(next), true
}

// ToggleChoreCompletion flips the completion state of a chore. Completing
// stamps completedAt and credits the assignee; reopening clears completedAt
// and debits the assignee. An unknown id is a no-op and reports false.
func (s *State) ToggleChoreCompletion(ctx context.Context, id string) (model.Chore, bool) {
	s.mu.Lock()

	i := s.choreIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Chore{}, false
	}
	c := &s.chores[i]

	var membersChanged bool
	if c.IsCompleted {
		c.IsCompleted = false
		c.CompletedAt = nil
		membersChanged = s.adjust(c.AssignedTo, -c.Points)
	} else {
		now := s.now()
		c.IsCompleted = true
		c.CompletedAt = &now
		membersChanged = s.adjust(c.AssignedTo, c.Points)
	}
	result := cloneChore(*c)

	s.persist(ctx, KeyChores, s.chores)
	if membersChanged {
		s.persist(ctx, KeyMembers, s.members)
	}
	s.mu.Unlock()

	action := "reopened"
	if result.IsCompleted {
		action = "completed"
	}
	s.notify(Change{Entity: "chore", Action: action, ID: id})
	return result, true
}

// DeleteChore removes a chore, first taking back its points from the assignee
// when it was completed. An unknown id is a no-op and reports false.
func (s *State) DeleteChore(ctx context.Context, id string) bool {
	s.mu.Lock()

	i := s.choreIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	c := s.chores[i]

	membersChanged := false
	if c.IsCompleted {
		membersChanged = s.adjust(c.AssignedTo, -c.Points)
	}

	s.chores = append(s.chores[:i:i], s.chores[i+1:]...)
	s.persist(ctx, KeyChores, s.chores)
	if membersChanged {
		s.persist(ctx, KeyMembers, s.members)
	}
	s.mu.Unlock()

	s.notify(Change{Entity: "chore", Action: "deleted", ID: id})
	return true
}

func (s *State) Chore(id string) (model.Chore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.choreIndex(id); i >= 0 {
		return cloneChore(s.chores[i]), true
	}
	return model.Chore{}, false
}

func (s *State) Chores() []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Chore, len(s.chores))
	for i, c := range s.chores {
		out[i] = cloneChore(c)
	}
	return out
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// cloneChore copies c so callers never share pointer fields with the state.
func cloneChore(c model.Chore) model.Chore {
	c.AssignedTo = clonePtr(c.AssignedTo)
	c.DueDate = clonePtr(c.DueDate)
	c.CompletedAt = clonePtr(c.CompletedAt)
	c.PlaceID = clonePtr(c.PlaceID)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
