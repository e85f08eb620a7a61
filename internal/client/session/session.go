// Package session models the client's auth session as an explicit finite
// state machine. There is no ambient singleton: the Session value is
// created once and passed down to callers that need it.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// State is the session lifecycle state.
type State string

const (
	// StateChecking is the initial state before the first auth call resolves.
	StateChecking State = "checking"
	// StateSignedOut means there is no active session.
	StateSignedOut State = "signedOut"
	// StateSignedIn means the user is authenticated.
	StateSignedIn State = "signedIn"
	// StateNeedsConfirmation means signup succeeded but the confirmation
	// code has not been entered yet.
	StateNeedsConfirmation State = "needsConfirmation"
)

// AuthError is the provider's {code, message} error shape.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Tokens holds the session credentials returned by the auth provider.
type Tokens struct {
	Access string `json:"access"`
}

// Session tracks the current user and state. Transitions happen only
// through the explicit auth calls below.
type Session struct {
	client  *http.Client
	baseURL string

	state State
	user  string
	toks  Tokens
}

// New returns a session in the checking state.
func New(client *http.Client, baseURL string) *Session {
	return &Session{client: client, baseURL: baseURL, state: StateChecking}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// User returns the signed-in email, empty outside StateSignedIn and
// StateNeedsConfirmation.
func (s *Session) User() string { return s.user }

// GetCurrentSession resolves the initial checking state. With no persisted
// credentials the session lands in signedOut.
func (s *Session) GetCurrentSession() State {
	if s.state == StateChecking {
		s.state = StateSignedOut
	}
	return s.state
}

// SignUp registers the email with the server. On success the session moves
// to needsConfirmation and the server issues a confirmation code.
func (s *Session) SignUp(email string) error {
	if err := s.post("/api/register", map[string]string{"email": email}, nil); err != nil {
		return err
	}
	s.user = email
	s.state = StateNeedsConfirmation
	return nil
}

// ConfirmSignUp submits the confirmation code. On success the session
// moves to signedIn.
func (s *Session) ConfirmSignUp(code string) error {
	if s.state != StateNeedsConfirmation {
		return &AuthError{Code: "InvalidStateException", Message: "no signup awaiting confirmation"}
	}
	body := map[string]string{"email": s.user, "code": code}
	if err := s.post("/api/confirm", body, nil); err != nil {
		return err
	}
	s.state = StateSignedIn
	s.toks = Tokens{Access: s.user}
	return nil
}

// ResendConfirmationCode asks the server for a fresh confirmation code.
func (s *Session) ResendConfirmationCode() error {
	if s.state != StateNeedsConfirmation {
		return &AuthError{Code: "InvalidStateException", Message: "no signup awaiting confirmation"}
	}
	return s.post("/api/resend", map[string]string{"email": s.user}, nil)
}

// SignIn checks the account with the server and moves to signedIn, or to
// needsConfirmation when the account exists but is unconfirmed.
func (s *Session) SignIn(email string) error {
	var resp struct {
		Status string `json:"status"`
		User   string `json:"user"`
	}
	if err := s.post("/api/login", map[string]string{"email": email}, &resp); err != nil {
		var authErr *AuthError
		if ok := asAuthError(err, &authErr); ok && authErr.Code == "UserNotConfirmedException" {
			s.user = email
			s.state = StateNeedsConfirmation
		}
		return err
	}
	s.user = resp.User
	s.toks = Tokens{Access: resp.User}
	s.state = StateSignedIn
	return nil
}

// SignOut clears the session.
func (s *Session) SignOut() {
	s.user = ""
	s.toks = Tokens{}
	s.state = StateSignedOut
}

func asAuthError(err error, target **AuthError) bool {
	if ae, ok := err.(*AuthError); ok {
		*target = ae
		return true
	}
	return false
}

// post sends a JSON request and decodes either the success payload into
// out or the provider's {code, message} error shape.
func (s *Session) post(path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &AuthError{Code: "SerializationException", Message: err.Error()}
	}

	resp, err := s.client.Post(s.baseURL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return &AuthError{Code: "NetworkError", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae AuthError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&ae); decodeErr != nil || ae.Code == "" {
			ae = AuthError{Code: "UnknownError", Message: fmt.Sprintf("status %d", resp.StatusCode)}
		}
		return &ae
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &AuthError{Code: "SerializationException", Message: err.Error()}
		}
	}
	return nil
}
