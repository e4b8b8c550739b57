package huumapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Candidate base addresses for login, tried in order. Every other call uses
// only the address that produced a successful login.
var DefaultBaseURLs = []string{
	"https://sauna.huum.eu",
	"https://api.huum.eu",
}

// Authenticator exchanges user credentials for a session token. Unlike the
// device calls it is not retried; first contact tolerates endpoint absence by
// walking the candidate list instead.
type Authenticator struct {
	BaseURLs []string
	Timeout  time.Duration
	Log      *zap.SugaredLogger

	now func() time.Time
}

// NewAuthenticator builds an Authenticator with the default candidate list
// and request timeout.
func NewAuthenticator() *Authenticator {
	return &Authenticator{
		BaseURLs: DefaultBaseURLs,
		Timeout:  requestTimeout,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionHash string   `json:"session_hash"`
	UserID      *flexInt `json:"user_id"`
	Email       string   `json:"email"`
	Error       string   `json:"error"`
}

// Authenticate tries each candidate base address until one yields a session
// token. 404s, undecodable bodies, and connection failures advance to the
// next candidate; bad credentials and malformed success payloads abort
// immediately since they are candidate-independent.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (AuthCredentials, error) {
	bases := a.BaseURLs
	if len(bases) == 0 {
		bases = DefaultBaseURLs
	}

	var lastSoft error
	for _, base := range bases {
		creds, soft, err := a.tryCandidate(ctx, base, username, password)
		if err == nil {
			return creds, nil
		}
		if !soft {
			return AuthCredentials{}, err
		}
		a.logw("login candidate failed", "base", base, "err", err)
		lastSoft = err
	}
	return AuthCredentials{}, &APIError{Message: "all API endpoints failed", Cause: lastSoft}
}

// tryCandidate performs one login attempt. soft=true means the caller should
// advance to the next candidate. The candidate's connections are released on
// every exit path.
func (a *Authenticator) tryCandidate(ctx context.Context, base, username, password string) (creds AuthCredentials, soft bool, err error) {
	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport, Timeout: a.timeout()}

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return AuthCredentials{}, false, fmt.Errorf("marshal login request: %w", err)
	}

	loginURL := strings.TrimRight(base, "/") + "/action/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return AuthCredentials{}, false, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return AuthCredentials{}, true, fmt.Errorf("connect %s: %w", base, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return AuthCredentials{}, true, fmt.Errorf("read login response from %s: %w", base, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return AuthCredentials{}, true, fmt.Errorf("%s: login endpoint not found", base)
	}

	raw, err := DecodeJSONP(data, resp.StatusCode)
	if err != nil {
		return AuthCredentials{}, true, err
	}

	var payload loginResponse
	// The payload validated as JSON already; a shape mismatch just leaves
	// fields zeroed and is handled below.
	_ = json.Unmarshal(raw, &payload)

	switch {
	case resp.StatusCode == http.StatusOK:
		if payload.SessionHash == "" {
			return AuthCredentials{}, false, &APIError{Message: "no session token in login response"}
		}
		userID := ""
		if payload.UserID != nil {
			userID = fmt.Sprintf("%d", int64(*payload.UserID))
		}
		email := payload.Email
		if email == "" {
			email = username
		}
		return AuthCredentials{
			Session:   payload.SessionHash,
			UserID:    userID,
			Email:     email,
			CreatedAt: a.timeNow(),
		}, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return AuthCredentials{}, false, &AuthError{Message: "invalid credentials"}
	case payload.Error != "":
		return AuthCredentials{}, false, &AuthError{Message: payload.Error}
	default:
		return AuthCredentials{}, false, &APIError{Message: fmt.Sprintf("authentication failed: HTTP %d", resp.StatusCode)}
	}
}

func (a *Authenticator) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return requestTimeout
}

func (a *Authenticator) timeNow() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *Authenticator) logw(msg string, kv ...any) {
	if a.Log != nil {
		a.Log.Debugw(msg, kv...)
	}
}
