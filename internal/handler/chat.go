package handler

import (
	"net/http"
	"strings"

	"github.com/dukerupert/chorechamp/internal/household"
	"github.com/dukerupert/chorechamp/internal/model"
)

const defaultSender = "User"

type ChatHandler struct {
	state *household.State
}

func NewChatHandler(s *household.State) *ChatHandler {
	return &ChatHandler{state: s}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.ChatMessages())
}

// Create appends a user message. Only plain messages can be posted; reminder,
// system and error entries come from the server.
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	req.Sender = strings.TrimSpace(req.Sender)
	if req.Sender == "" {
		req.Sender = defaultSender
	}

	msg := h.state.AppendChatMessage(r.Context(), model.ChatMessage{
		Sender: req.Sender,
		Text:   req.Text,
		Type:   model.MessageTypeMessage,
	})
	writeJSON(w, http.StatusCreated, msg)
}
