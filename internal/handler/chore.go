package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechamp/internal/chore"
	"github.com/dukerupert/chorechamp/internal/household"
	"github.com/dukerupert/chorechamp/internal/model"
	"github.com/dukerupert/chorechamp/internal/reminder"
)

type ChoreHandler struct {
	state     *household.State
	reminders *reminder.Dispatcher
	logger    *slog.Logger
}

func NewChoreHandler(s *household.State, d *reminder.Dispatcher, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{state: s, reminders: d, logger: logger}
}

type choreRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Points      int     `json:"points"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
	Frequency   string  `json:"frequency"`
	PlaceID     *string `json:"placeId"`
	IsCompleted *bool   `json:"isCompleted"`
}

// validate normalises req and checks it against the current members and
// places. It returns the message to send back on failure.
func (h *ChoreHandler) validate(req *choreRequest) (model.ChoreInput, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return model.ChoreInput{}, "name is required"
	}
	if req.Points <= 0 {
		return model.ChoreInput{}, "points must be a positive number"
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return model.ChoreInput{}, err.Error()
	}

	in := model.ChoreInput{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Points:      req.Points,
		AssignedTo:  optionalID(req.AssignedTo),
		DueDate:     due,
		Frequency:   model.ParseFrequency(req.Frequency),
		PlaceID:     optionalID(req.PlaceID),
	}

	if in.AssignedTo != nil {
		if _, ok := h.state.Member(*in.AssignedTo); !ok {
			return model.ChoreInput{}, "member not found"
		}
	}
	if in.PlaceID != nil && !h.placeExists(*in.PlaceID) {
		return model.ChoreInput{}, "place not found"
	}
	return in, ""
}

func (h *ChoreHandler) placeExists(id string) bool {
	for _, p := range h.state.Places() {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c := h.state.AddChore(r.Context(), in)
	writeJSON(w, http.StatusCreated, c)
}

// List answers GET /api/chores?filter=all|pending|completed&q=text.
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.state.ListChores(chore.ParseFilter(q.Get("filter")), q.Get("q")))
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.state.Chore(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.state.Chore(id)
	if !ok {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req choreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Edits that leave out isCompleted keep the stored completion state.
	completed := existing.IsCompleted
	if req.IsCompleted != nil {
		completed = *req.IsCompleted
	}

	c, ok := h.state.EditChore(r.Context(), model.Chore{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Points:      in.Points,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		IsCompleted: completed,
		Frequency:   in.Frequency,
		PlaceID:     in.PlaceID,
	})
	if !ok {
		// Deleted between the lookup and the edit.
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.state.DeleteChore(r.Context(), r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	c, ok := h.state.ToggleChoreCompletion(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Remind starts generating a reminder for the chore's assignee and answers
// 202 right away. The outcome shows up in the chat log.
func (h *ChoreHandler) Remind(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.reminders.Send(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "generating"})
	case errors.Is(err, reminder.ErrChoreNotFound):
		writeError(w, http.StatusNotFound, "chore not found")
	case errors.Is(err, reminder.ErrNoAssignee):
		writeError(w, http.StatusBadRequest, "chore has no assignee")
	default:
		h.logger.Error("send reminder", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send reminder")
	}
}
