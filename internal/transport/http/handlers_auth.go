package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// MaxRevocationTTL bounds how long a revocation entry is kept.
const MaxRevocationTTL = 7 * 24 * time.Hour

// TokenRevoker blocks access tokens by id until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// RevokeTokenRequest is the body of POST /v1/tokens/revocations.
type RevokeTokenRequest struct {
	JTI              string `json:"jti"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

func (r *RevokeTokenRequest) Validate() error {
	r.JTI = strings.TrimSpace(r.JTI)
	if r.JTI == "" {
		return dErrors.New(dErrors.CodeValidation, "jti is required")
	}
	if r.ExpiresInSeconds <= 0 {
		return dErrors.New(dErrors.CodeValidation, "expires_in_seconds must be positive")
	}
	if time.Duration(r.ExpiresInSeconds)*time.Second > MaxRevocationTTL {
		return dErrors.Newf(dErrors.CodeValidation, "expires_in_seconds must be at most %d", int64(MaxRevocationTTL/time.Second))
	}
	return nil
}

// AuthHandler exposes token revocation to agents.
type AuthHandler struct {
	revoker TokenRevoker
	logger  *slog.Logger
}

func NewAuthHandler(revoker TokenRevoker, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{revoker: revoker, logger: logger}
}

func (h *AuthHandler) RegisterAgent(r chi.Router) {
	r.Post("/tokens/revocations", h.handleRevoke)
}

func (h *AuthHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[RevokeTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.revoker.Revoke(ctx, req.JTI, time.Duration(req.ExpiresInSeconds)*time.Second); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		logError(ctx, h.logger, "revoke token", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "token revoked",
		"request_id", requestID,
		"caller", requestcontext.Caller(ctx).String(),
		"jti", req.JTI,
		"event", "token_revoked",
		"log_type", "audit",
	)
	w.WriteHeader(http.StatusNoContent)
}
