package model

import "time"

type MessageType string

const (
	MessageTypeMessage  MessageType = "message"
	MessageTypeReminder MessageType = "reminder"
	MessageTypeSystem   MessageType = "system"
	MessageTypeError    MessageType = "error"
)

const SenderSystem = "System"

type ChatMessage struct {
	ID        string      `json:"id"`
	Sender    string      `json:"sender"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
}
