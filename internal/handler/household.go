package handler

import (
	"net/http"
	"strings"

	"github.com/dukerupert/chorechamp/internal/household"
)

type HouseholdHandler struct {
	state *household.State
}

func NewHouseholdHandler(s *household.State) *HouseholdHandler {
	return &HouseholdHandler{state: s}
}

type householdResponse struct {
	Name string `json:"name"`
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, householdResponse{Name: h.state.HouseholdName()})
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req householdResponse
	if !decodeJSON(w, r, &req) {
		return
	}

	name, ok := h.state.SetHouseholdName(r.Context(), req.Name)
	if !ok {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusOK, householdResponse{Name: name})
}

type MemberHandler struct {
	state *household.State
}

func NewMemberHandler(s *household.State) *MemberHandler {
	return &MemberHandler{state: s}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Members())
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	member := h.state.AddMember(r.Context(), req.Name, strings.TrimSpace(req.AvatarURL))
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Leaderboard())
}

type PlaceHandler struct {
	state *household.State
}

func NewPlaceHandler(s *household.State) *PlaceHandler {
	return &PlaceHandler{state: s}
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Places())
}

func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	place, ok := h.state.AddPlace(r.Context(), req.Name)
	if !ok {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, place)
}

func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.state.DeletePlace(r.Context(), r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "place not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
