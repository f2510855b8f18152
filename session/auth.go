package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vasastore/storefront-client/client"
	apperrors "github.com/vasastore/storefront-client/errors"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupParams is the customer registration payload. Password confirmation
// is checked client-side before any network call.
type SignupParams struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone_number,omitempty"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required"`
}

// LoginWithCredentials exchanges email/password for a signed token at
// POST /customer/login and transitions to Authenticated.
func (m *Manager) LoginWithCredentials(ctx context.Context, email, password string) error {
	creds := credentials{Email: email, Password: password}
	if err := m.validate.Struct(creds); err != nil {
		return apperrors.New(apperrors.ErrValidation.Code, apperrors.ErrValidation.Message, err)
	}

	raw, err := m.api.Request(ctx, http.MethodPost, "/customer/login", &client.Options{Body: creds})
	if err != nil {
		return err
	}

	token := extractToken(raw)
	if token == "" {
		return apperrors.New(apperrors.ErrInvalidToken.Code, "login response carried no token", nil)
	}
	return m.Login(ctx, token)
}

// Signup registers a new customer at POST /customer/signup.
func (m *Manager) Signup(ctx context.Context, params SignupParams) error {
	if err := m.validate.Struct(params); err != nil {
		return apperrors.New(apperrors.ErrValidation.Code, apperrors.ErrValidation.Message, err)
	}
	if params.Password != params.ConfirmPassword {
		return apperrors.New(apperrors.ErrValidation.Code, "Passwords do not match", fmt.Errorf("password confirmation mismatch"))
	}

	_, err := m.api.Request(ctx, http.MethodPost, "/customer/signup", &client.Options{Body: params})
	return err
}

func extractToken(raw json.RawMessage) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	for _, key := range []string{"token", "access_token", "jwt"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
