package authverify

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Identity is the caller as asserted by the auth provider. Subject is the
// provider-issued user id and is the primary key on our side too.
type Identity struct {
	Subject  uuid.UUID              `json:"subject"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DisplayName resolves a human name from provider metadata, preferring
// full_name, then name, then the email local part.
func (i Identity) DisplayName() string {
	if i.Metadata != nil {
		if v, ok := i.Metadata["full_name"].(string); ok && v != "" {
			return v
		}
		if v, ok := i.Metadata["name"].(string); ok && v != "" {
			return v
		}
	}
	for idx := 0; idx < len(i.Email); idx++ {
		if i.Email[idx] == '@' {
			return i.Email[:idx]
		}
	}
	return ""
}

var ErrInvalidToken = errors.New("invalid or expired token")

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
