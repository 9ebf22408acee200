package queue

import (
	"encoding/json"
	"time"
)

// MessageVersion is the current payload schema version.
const MessageVersion = 1

// Message asks a worker to render one generation.
type Message struct {
	GenerationID string `json:"generationId"`
	RequestID    string `json:"requestId,omitempty"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// NewMessage stamps a message for generationID at now.
func NewMessage(generationID, requestID string, now time.Time) Message {
	return Message{
		GenerationID: generationID,
		RequestID:    requestID,
		EnqueuedAt:   now.UTC().Format(time.RFC3339),
		Version:      MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
