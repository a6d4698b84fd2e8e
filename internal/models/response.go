package models

import (
	"github.com/tidwall/gjson"
)

// ChatReply is the decoded body of a POST /chat response. The service
// answers in one of three shapes: a plain reply, a logical error, or an
// extended reply carrying sidebar metadata for a freshly titled
// conversation. All three map onto this one struct.
type ChatReply struct {
	// Response is the model's answer, markdown formatted. Empty when the
	// server reported an error.
	Response string
	// Error is the server-reported logical error, if any.
	Error string
	// ChatID echoes (or re-assigns) the conversation id.
	ChatID string
	// TitleUpdated is true when the server generated a new title for the
	// conversation and the sidebar entry should be refreshed.
	TitleUpdated bool
	// NewHistoryHTML is the server-rendered sidebar entry for the refreshed
	// conversation. Treated strictly as data; see ParseHistoryEntry.
	NewHistoryHTML string
}

// IsError reports whether the server answered with a logical error.
func (r *ChatReply) IsError() bool {
	return r.Error != ""
}

// ParseChatReply decodes a /chat response body. The three response variants
// are distinguished by which fields are present, so the decode is tolerant:
// absent fields stay zero.
func ParseChatReply(body []byte) (*ChatReply, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, false
	}

	reply := &ChatReply{
		Response:       parsed.Get("response").String(),
		Error:          parsed.Get("error").String(),
		ChatID:         parsed.Get("chat_id").String(),
		TitleUpdated:   parsed.Get("title_updated").Bool(),
		NewHistoryHTML: parsed.Get("new_history_html").String(),
	}

	// A reply must carry at least an answer or an error.
	if reply.Response == "" && reply.Error == "" {
		return nil, false
	}

	return reply, true
}

// DeleteReply is the decoded body of a POST /delete_chat/<id> response.
type DeleteReply struct {
	Success     bool
	RedirectURL string
	Error       string
}

// ParseDeleteReply decodes a /delete_chat response body.
func ParseDeleteReply(body []byte) (*DeleteReply, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, false
	}

	return &DeleteReply{
		Success:     parsed.Get("success").Bool(),
		RedirectURL: parsed.Get("redirect_url").String(),
		Error:       parsed.Get("error").String(),
	}, true
}
