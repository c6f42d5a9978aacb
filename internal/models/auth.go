package models

import (
	"encoding/json"
	"strings"
)

// Credentials is the login form. All three fields must be filled in.
type Credentials struct {
	Username string `json:"username" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) Validate() error {
	return validateStruct(c)
}

// Registration is the sign-up form.
type Registration struct {
	Username string `json:"username" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r Registration) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// APIMessage is an error body. FastAPI style services put the text in "detail",
// which may also be a list of validation objects.
type APIMessage struct {
	Message string          `json:"message,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

// Text returns the message, falling back to detail when it is a plain string.
func (m APIMessage) Text() string {
	if msg := strings.TrimSpace(m.Message); msg != "" {
		return msg
	}
	if len(m.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(m.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(m.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
