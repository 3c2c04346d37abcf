package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

// CallerResolver derives the acting identity of a mutation request. It is
// the seam where a real session scheme replaces the body-supplied identity.
type CallerResolver interface {
	Resolve(r *http.Request, body validation.Fields) (domain.Caller, error)
}

// UserVerifier looks up the account behind a bearer credential.
type UserVerifier interface {
	Verify(ctx context.Context, userID string) (*domain.User, error)
}

// NewCallerResolver picks the resolver named by source ("body" or
// "bearer"). Unknown sources fall back to the body scheme.
func NewCallerResolver(source string, users UserVerifier) CallerResolver {
	if source == "bearer" {
		return &BearerCaller{users: users}
	}
	return BodyCaller{}
}

// BodyCaller trusts the userId (or user_id) and userRole fields of the
// request body. Any client can claim any identity with it.
type BodyCaller struct{}

func (BodyCaller) Resolve(_ *http.Request, body validation.Fields) (domain.Caller, error) {
	id := body.Text("userId")
	if id == "" {
		id = body.Text("user_id")
	}
	if id == "" {
		return domain.Caller{}, nil
	}
	return domain.Caller{ID: id, Role: domain.ParseRole(body.Text("userRole"))}, nil
}

// BearerCaller resolves "Authorization: Bearer <userId>" against the user
// store. The role comes from the stored account, never from the client.
type BearerCaller struct {
	users UserVerifier
}

func (b *BearerCaller) Resolve(r *http.Request, _ validation.Fields) (domain.Caller, error) {
	id, ok := BearerToken(r)
	if !ok {
		return domain.Caller{}, domain.ErrUnauthenticated
	}
	user, err := b.users.Verify(r.Context(), id)
	if err != nil {
		return domain.Caller{}, err
	}
	return domain.Caller{ID: user.ID, Role: domain.ParseRole(string(user.Role))}, nil
}

// BearerToken returns the credential of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}
