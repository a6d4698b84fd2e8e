package api

import (
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
)

// mockDoer is a canned-response transport for tests.
type mockDoer struct {
	status int
	body   string
	err    error

	// request capture
	lastReq  *http.Request
	lastBody string
	calls    int
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	m.lastReq = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.lastBody = string(data)
	}

	if m.err != nil {
		return nil, m.err
	}

	status := m.status
	if status == 0 {
		status = 200
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     http.Header{},
	}, nil
}

func newTestClient(d *mockDoer) *Client {
	c, _ := NewClient("http://localhost:5000", WithHTTPClient(d))
	return c
}
