package identity

import (
	"context"
	"strings"
)

// Anonymous is the user segment used when no identity has been resolved.
const Anonymous = "anonymous"

// Identity is the opaque user/profile pair supplied by the authentication
// collaborator. Its content is only used to derive a storage namespace.
type Identity struct {
	Email       string
	DisplayName string
	ProfileID   string
}

// User returns the preferred user identifier: email, then display name.
// It is empty when neither is set.
func (i Identity) User() string {
	if email := strings.TrimSpace(i.Email); email != "" {
		return email
	}

	return strings.TrimSpace(i.DisplayName)
}

// Present reports whether a user has been resolved. Writes are disabled
// for identities that are not present.
func (i Identity) Present() bool {
	return i.User() != ""
}

// Namespace derives the key prefix isolating this identity's data.
//
//	user-<normalizedUser>-
//	user-<normalizedUser>-profile-<profileID>-
func (i Identity) Namespace() string {
	user := i.User()
	if user == "" {
		user = Anonymous
	}

	var sb strings.Builder

	sb.WriteString("user-")
	sb.WriteString(Normalize(user))
	sb.WriteString("-")

	if profile := strings.TrimSpace(i.ProfileID); profile != "" {
		sb.WriteString("profile-")
		sb.WriteString(profile)
		sb.WriteString("-")
	}

	return sb.String()
}

// Normalize lowercases s and replaces every rune outside [a-z0-9] with '_'.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return '_'
	}, strings.ToLower(s))
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, or the zero Identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
