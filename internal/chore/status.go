package chore

import (
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/chorechamp/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Filter selects chores by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter returns the Filter named by s, or FilterAll for anything else.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

type ChoreWithStatus struct {
	model.Chore
	Status     Status `json:"status"`
	PlaceName  string `json:"placeName,omitempty"`
	MemberName string `json:"memberName,omitempty"`
}

// ComputeStatus determines the status of a chore on the given day.
// A chore is overdue when it is incomplete and its due date falls on a day
// before today; the time of day is ignored on both sides.
func ComputeStatus(c model.Chore, today time.Time) Status {
	if c.IsCompleted {
		return StatusCompleted
	}
	if IsOverdue(c, today) {
		return StatusOverdue
	}
	return StatusPending
}

func IsOverdue(c model.Chore, today time.Time) bool {
	if c.DueDate == nil || c.IsCompleted {
		return false
	}
	due := startOfDay(c.DueDate.In(today.Location()))
	return due.Before(startOfDay(today))
}

// Matches reports whether c passes the filter and contains search
// (case-insensitive) in its name or description. An empty search matches all.
func Matches(c model.Chore, f Filter, search string) bool {
	switch f {
	case FilterPending:
		if c.IsCompleted {
			return false
		}
	case FilterCompleted:
		if !c.IsCompleted {
			return false
		}
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), search) ||
		strings.Contains(strings.ToLower(c.Description), search)
}

// Sort orders chores with incomplete ones first, then by due date ascending.
// Chores without a due date sort after dated ones. The sort is stable.
func Sort(chores []ChoreWithStatus) {
	sort.SliceStable(chores, func(i, j int) bool {
		a, b := chores[i], chores[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		switch {
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
