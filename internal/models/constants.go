// Package models defines the wire contract shared with the Healthguru service.
package models

// Message roles as the service reports them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// API paths relative to the configured base URL.
const (
	PathChat       = "/chat"
	PathNewChat    = "/new_chat"
	PathDeleteChat = "/delete_chat"
)

// SessionCookieName is the cookie the web app issues on login. The CLI
// forwards it so server-side history lines up with the browser session.
const SessionCookieName = "session"

// DefaultHeaders returns the headers sent with every request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		"Accept":          "application/json",
		"User-Agent":      "healthguru-cli",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
