package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// Session is what the gateway hands back on login. The token is the only
// state this client persists between runs.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// LoggedIn reports whether the client holds a token
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against POST /auth/login and installs the returned
// session on the client.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var s Session
	err := c.request(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Username: username, Password: password}, &s)
	if err != nil {
		return Session{}, err
	}
	c.session = s
	return s, nil
}

// Logout drops the in-memory session
func (c *Client) Logout() {
	c.session = Session{}
}

// SaveSession writes the session to path so the next run can resume without
// logging in again.
func SaveSession(path string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// LoadSession reads a previously saved session. A missing file is not an
// error; it just means nobody is logged in.
func LoadSession(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session file: %w", err)
	}
	return s, nil
}

// ClearSession removes the saved session file
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
