package api

import (
	"bytes"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/dmelo/healthguru/internal/errors"
	"github.com/dmelo/healthguru/internal/models"
)

// maxBodySize caps how much of a response body is read. The service answers
// with small JSON documents; anything bigger is broken.
const maxBodySize = 1 << 20

// SendMessage posts one message to the service and returns the decoded
// reply. A single best-effort request: no retry, no timeout beyond the
// transport's own, no cancellation. An empty or whitespace-only message is
// rejected before any request is issued.
func (c *Client) SendMessage(message, chatID string) (*models.ChatReply, error) {
	req, err := models.NewChatRequest(message, chatID)
	if err != nil {
		return nil, apierrors.ErrEmptyMessage
	}

	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	body, err := req.Encode()
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoint(models.PathChat)
	raw, status, err := c.post(endpoint, body)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}

	reply, ok := models.ParseChatReply(raw)
	if !ok {
		// Non-2xx with an undecodable body is still a server failure.
		if status < 200 || status >= 300 {
			return nil, apierrors.NewServerError(status, endpoint, http.StatusText(status))
		}
		return nil, apierrors.NewParseError(fmt.Sprintf("unexpected response from %s", endpoint))
	}

	if reply.IsError() {
		return nil, apierrors.NewServerError(status, endpoint, reply.Error)
	}

	return reply, nil
}

// DeleteChat removes a server-side conversation.
func (c *Client) DeleteChat(chatID string) (*models.DeleteReply, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id cannot be empty")
	}

	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	endpoint := c.endpoint(models.PathDeleteChat + "/" + chatID)
	raw, status, err := c.post(endpoint, nil)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}

	reply, ok := models.ParseDeleteReply(raw)
	if !ok {
		return nil, apierrors.NewParseError(fmt.Sprintf("unexpected response from %s", endpoint))
	}

	if !reply.Success {
		msg := reply.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, apierrors.NewServerError(status, endpoint, msg)
	}

	return reply, nil
}

// post issues one POST and drains the response body.
func (c *Client) post(endpoint string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	if sess := c.session; sess != nil && sess.Cookie != "" {
		req.AddCookie(&http.Cookie{Name: models.SessionCookieName, Value: sess.Cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return raw, resp.StatusCode, nil
}
