package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	// Message is the user's prompt, already trimmed.
	Message string `json:"message"`
	// ChatID identifies the server-side conversation. Empty on the first
	// message of a new conversation; the server assigns one in that case.
	ChatID string `json:"chat_id"`
}

// NewChatRequest builds a request, trimming the message. An empty or
// whitespace-only message is rejected so no request is ever issued for it.
func NewChatRequest(message, chatID string) (*ChatRequest, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}
	return &ChatRequest{Message: trimmed, ChatID: chatID}, nil
}

// Encode serializes the request body.
func (r *ChatRequest) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}
	return data, nil
}
