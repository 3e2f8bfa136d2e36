package model

import "time"

type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency maps a user-supplied value to a Frequency, defaulting to once.
func ParseFrequency(s string) Frequency {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(s)
	default:
		return FrequencyOnce
	}
}

type Place struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Chore struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Frequency   Frequency  `json:"frequency"`
	PlaceID     *string    `json:"placeId,omitempty"`
}

// IsAssignedTo reports whether the chore is assigned to memberID.
func (c Chore) IsAssignedTo(memberID string) bool {
	return c.AssignedTo != nil && *c.AssignedTo == memberID
}

// ChoreInput carries the editable fields of a chore at creation time.
type ChoreInput struct {
	Name        string
	Description string
	Points      int
	AssignedTo  *string
	DueDate     *time.Time
	Frequency   Frequency
	PlaceID     *string
}
