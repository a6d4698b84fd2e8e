package api

import (
	"errors"
	"testing"

	"github.com/dmelo/healthguru/internal/config"
	apierrors "github.com/dmelo/healthguru/internal/errors"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient("http://localhost:5000/")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.BaseURL() != "http://localhost:5000" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", client.BaseURL())
	}
}

func TestNewClientEmptyBaseURL(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestSendMessage(t *testing.T) {
	mock := &mockDoer{body: `{"response":"Hi there","chat_id":"abc"}`}
	client := newTestClient(mock)

	reply, err := client.SendMessage("Hello", "abc")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if reply.Response != "Hi there" {
		t.Errorf("Response = %q, want Hi there", reply.Response)
	}
	if reply.IsError() {
		t.Error("unexpected error flag on reply")
	}

	// Request body must match the wire contract exactly.
	if mock.lastBody != `{"message":"Hello","chat_id":"abc"}` {
		t.Errorf("request body = %s", mock.lastBody)
	}
	if got := mock.lastReq.URL.Path; got != "/chat" {
		t.Errorf("path = %q, want /chat", got)
	}
	if ct := mock.lastReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSendMessageEmptyMessageNoRequest(t *testing.T) {
	mock := &mockDoer{body: `{"response":"never"}`}
	client := newTestClient(mock)

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := client.SendMessage(msg, "abc"); !errors.Is(err, apierrors.ErrEmptyMessage) {
			t.Errorf("SendMessage(%q): err = %v, want ErrEmptyMessage", msg, err)
		}
	}

	if mock.calls != 0 {
		t.Errorf("transport was called %d times for empty messages", mock.calls)
	}
}

func TestSendMessageServerErrorPayload(t *testing.T) {
	mock := &mockDoer{status: 429, body: `{"error":"rate limited"}`}
	client := newTestClient(mock)

	_, err := client.SendMessage("Hello", "abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apierrors.IsServerError(err) {
		t.Errorf("expected ServerError, got %T", err)
	}
	if apierrors.ServerMessage(err) != "rate limited" {
		t.Errorf("ServerMessage = %q", apierrors.ServerMessage(err))
	}
	if apierrors.GetHTTPStatus(err) != 429 {
		t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
	}
}

func TestSendMessageErrorPayloadWith200(t *testing.T) {
	// A logical error is a payload property, not a transport one.
	mock := &mockDoer{status: 200, body: `{"error":"Message cannot be empty"}`}
	client := newTestClient(mock)

	_, err := client.SendMessage("Hello", "")
	if !apierrors.IsServerError(err) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if apierrors.IsNetworkError(err) {
		t.Error("logical error misclassified as network failure")
	}
}

func TestSendMessageNetworkFailure(t *testing.T) {
	mock := &mockDoer{err: errors.New("connection refused")}
	client := newTestClient(mock)

	_, err := client.SendMessage("Hello", "abc")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if apierrors.GetEndpoint(err) != "http://localhost:5000/chat" {
		t.Errorf("endpoint = %q", apierrors.GetEndpoint(err))
	}
}

func TestSendMessageUndecodableBody(t *testing.T) {
	mock := &mockDoer{body: `<!doctype html><html>oops</html>`}
	client := newTestClient(mock)

	_, err := client.SendMessage("Hello", "abc")
	if !apierrors.IsParseError(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestSendMessageUndecodableBodyNon200(t *testing.T) {
	mock := &mockDoer{status: 502, body: `Bad Gateway`}
	client := newTestClient(mock)

	_, err := client.SendMessage("Hello", "abc")
	if !apierrors.IsServerError(err) {
		t.Fatalf("expected ServerError for 502, got %v", err)
	}
	if apierrors.GetHTTPStatus(err) != 502 {
		t.Errorf("status = %d", apierrors.GetHTTPStatus(err))
	}
}

func TestSendMessageExtendedReply(t *testing.T) {
	mock := &mockDoer{body: `{"response":"ok","title_updated":true,"chat_id":"n3w","new_history_html":"<li id=\"chat-n3w\">Sleep Tips</li>"}`}
	client := newTestClient(mock)

	reply, err := client.SendMessage("first message", "")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !reply.TitleUpdated {
		t.Error("TitleUpdated = false")
	}
	if reply.ChatID != "n3w" {
		t.Errorf("ChatID = %q", reply.ChatID)
	}

	// First message of a new conversation still carries a chat_id key.
	if mock.lastBody != `{"message":"first message","chat_id":""}` {
		t.Errorf("request body = %s", mock.lastBody)
	}
}

func TestSendMessageSessionCookie(t *testing.T) {
	mock := &mockDoer{body: `{"response":"ok"}`}
	client, _ := NewClient("http://localhost:5000",
		WithHTTPClient(mock),
		WithSession(&config.Session{Cookie: "s3ss10n"}),
	)

	if _, err := client.SendMessage("Hello", "abc"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	cookies := mock.lastReq.Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "s3ss10n" {
		t.Errorf("cookies = %v, want single session cookie", cookies)
	}
}

func TestSendMessageAfterClose(t *testing.T) {
	mock := &mockDoer{body: `{"response":"ok"}`}
	client := newTestClient(mock)
	client.Close()

	if _, err := client.SendMessage("Hello", "abc"); err == nil {
		t.Error("expected error after Close")
	}
	if mock.calls != 0 {
		t.Error("closed client still issued a request")
	}
}

func TestDeleteChat(t *testing.T) {
	mock := &mockDoer{body: `{"success":true,"redirect_url":"/chat/next"}`}
	client := newTestClient(mock)

	reply, err := client.DeleteChat("abc")
	if err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	if reply.RedirectURL != "/chat/next" {
		t.Errorf("RedirectURL = %q", reply.RedirectURL)
	}
	if got := mock.lastReq.URL.Path; got != "/delete_chat/abc" {
		t.Errorf("path = %q", got)
	}
}

func TestDeleteChatNotFound(t *testing.T) {
	mock := &mockDoer{status: 404, body: `{"success":false,"error":"Chat not found"}`}
	client := newTestClient(mock)

	_, err := client.DeleteChat("missing")
	if !apierrors.IsServerError(err) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if apierrors.ServerMessage(err) != "Chat not found" {
		t.Errorf("ServerMessage = %q", apierrors.ServerMessage(err))
	}
}

func TestDeleteChatEmptyID(t *testing.T) {
	mock := &mockDoer{}
	client := newTestClient(mock)

	if _, err := client.DeleteChat(""); err == nil {
		t.Error("expected error for empty chat id")
	}
	if mock.calls != 0 {
		t.Error("request issued for empty chat id")
	}
}
