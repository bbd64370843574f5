package testutil

import (
	"net/http"

	"tokenguard/pkg/domain"
	"tokenguard/pkg/requestcontext"
)

// WithCaller marks the request as authenticated by caller with role.
// This simulates what the auth middleware does for a valid bearer token.
func WithCaller(req *http.Request, caller domain.Address, role string) *http.Request {
	ctx := requestcontext.WithCaller(req.Context(), caller)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}
