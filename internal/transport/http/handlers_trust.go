package httptransport

import (
	"context"
	"crypto/ed25519"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// TrustService administers claim topics, trusted issuers and claims.
type TrustService interface {
	Topics() []domain.ClaimTopic
	AddTopic(ctx context.Context, topic domain.ClaimTopic) error
	RemoveTopic(ctx context.Context, topic domain.ClaimTopic) error
	TrustedIssuers() []models.TrustedIssuer
	AddTrustedIssuer(ctx context.Context, issuer domain.Address, pub ed25519.PublicKey, topics []domain.ClaimTopic) error
	UpdateIssuerClaimTopics(ctx context.Context, issuer domain.Address, topics []domain.ClaimTopic) error
	RemoveTrustedIssuer(ctx context.Context, issuer domain.Address) error
	RevokeClaim(ctx context.Context, issuer domain.Address, signature []byte) error
	AddClaim(ctx context.Context, identity domain.Address, claim models.Claim) (domain.ClaimID, error)
	RemoveClaim(ctx context.Context, identity, issuer domain.Address, topic domain.ClaimTopic) error
}

// TrustHandler wires the verification trust endpoints.
type TrustHandler struct {
	service TrustService
	logger  *slog.Logger
}

func NewTrustHandler(service TrustService, logger *slog.Logger) *TrustHandler {
	return &TrustHandler{service: service, logger: logger}
}

func (h *TrustHandler) Register(r chi.Router) {
	r.Get("/claim-topics", h.handleListTopics)
	r.Get("/trusted-issuers", h.handleListIssuers)
}

func (h *TrustHandler) RegisterAgent(r chi.Router) {
	r.Post("/claim-topics/{topic}", h.handleAddTopic)
	r.Delete("/claim-topics/{topic}", h.handleRemoveTopic)
	r.Post("/trusted-issuers/{issuer}", h.handleAddIssuer)
	r.Put("/trusted-issuers/{issuer}", h.handleUpdateIssuer)
	r.Delete("/trusted-issuers/{issuer}", h.handleRemoveIssuer)
	r.Post("/trusted-issuers/{issuer}/revocations", h.handleRevoke)
	r.Post("/claims", h.handleAddClaim)
	r.Delete("/claims/{identity}/{issuer}/{topic}", h.handleRemoveClaim)
}

func (h *TrustHandler) handleListTopics(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toTopicsResponse(h.service.Topics()))
}

func (h *TrustHandler) handleListIssuers(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toTrustedIssuersResponse(h.service.TrustedIssuers()))
}

func (h *TrustHandler) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topic, err := topicParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(ctx, w, "add_claim_topic", http.StatusCreated, h.service.AddTopic(ctx, topic))
}

func (h *TrustHandler) handleRemoveTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topic, err := topicParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(ctx, w, "remove_claim_topic", http.StatusOK, h.service.RemoveTopic(ctx, topic))
}

func (h *TrustHandler) handleAddIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuer, err := parseAddress("issuer", chi.URLParam(r, "issuer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TrustedIssuerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	err = h.service.AddTrustedIssuer(ctx, issuer, ed25519.PublicKey(req.PublicKey), req.parsedTopics)
	h.respond(ctx, w, "add_trusted_issuer", http.StatusCreated, err)
}

func (h *TrustHandler) handleUpdateIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuer, err := parseAddress("issuer", chi.URLParam(r, "issuer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[IssuerTopicsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "update_trusted_issuer", http.StatusOK, h.service.UpdateIssuerClaimTopics(ctx, issuer, req.parsedTopics))
}

func (h *TrustHandler) handleRemoveIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuer, err := parseAddress("issuer", chi.URLParam(r, "issuer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(ctx, w, "remove_trusted_issuer", http.StatusOK, h.service.RemoveTrustedIssuer(ctx, issuer))
}

func (h *TrustHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuer, err := parseAddress("issuer", chi.URLParam(r, "issuer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RevokeClaimRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "revoke_claim", http.StatusOK, h.service.RevokeClaim(ctx, issuer, req.Signature))
}

func (h *TrustHandler) handleAddClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AddClaimRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	id, err := h.service.AddClaim(ctx, req.parsedIdentity, req.parsedClaim)
	if err != nil {
		h.fail(ctx, w, "add_claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ClaimResponse{Identity: req.parsedIdentity.String(), ClaimID: id.String()})
}

func (h *TrustHandler) handleRemoveClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := parseAddress("identity", chi.URLParam(r, "identity"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issuer, err := parseAddress("issuer", chi.URLParam(r, "issuer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	topic, err := topicParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(ctx, w, "remove_claim", http.StatusOK, h.service.RemoveClaim(ctx, identity, issuer, topic))
}

func topicParam(r *http.Request) (domain.ClaimTopic, error) {
	topic, err := domain.ParseClaimTopic(chi.URLParam(r, "topic"))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeValidation, "topic must be an unsigned integer")
	}
	return topic, nil
}

func (h *TrustHandler) respond(ctx context.Context, w http.ResponseWriter, op string, status int, err error) {
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	httputil.WriteJSON(w, status, OperationResponse{Operation: op, Count: 1})
}

func (h *TrustHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logError(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
