package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// IdentityService is the identity registry surface exposed over HTTP.
type IdentityService interface {
	RegisterIdentity(ctx context.Context, wallet, identity domain.Address, country domain.CountryCode) error
	BatchRegisterIdentity(ctx context.Context, wallets, identities []domain.Address, countries []domain.CountryCode) error
	UpdateIdentity(ctx context.Context, wallet, identity domain.Address) error
	UpdateCountry(ctx context.Context, wallet domain.Address, country domain.CountryCode) error
	DeleteIdentity(ctx context.Context, wallet domain.Address) error
	Record(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error)
	IsVerified(ctx context.Context, wallet domain.Address, topics []domain.ClaimTopic) (bool, error)
}

// IdentityHandler wires identity registry endpoints.
type IdentityHandler struct {
	service IdentityService
	logger  *slog.Logger
}

func NewIdentityHandler(service IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{service: service, logger: logger}
}

func (h *IdentityHandler) Register(r chi.Router) {
	r.Get("/identities/{wallet}", h.handleGetIdentity)
	r.Get("/identities/{wallet}/verified", h.handleIsVerified)
}

func (h *IdentityHandler) RegisterAgent(r chi.Router) {
	r.Post("/identities", h.handleRegister)
	r.Post("/identities/batch", h.handleBatchRegister)
	r.Put("/identities/{wallet}", h.handleUpdateIdentity)
	r.Put("/identities/{wallet}/country", h.handleUpdateCountry)
	r.Delete("/identities/{wallet}", h.handleDelete)
}

func (h *IdentityHandler) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.service.Record(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "get identity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(record))
}

// handleIsVerified answers GET /identities/{wallet}/verified?topics=1,2.
func (h *IdentityHandler) handleIsVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	topics, raw, err := parseTopicQuery(r.URL.Query().Get("topics"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	verified, err := h.service.IsVerified(ctx, wallet, topics)
	if err != nil {
		h.fail(ctx, w, "is verified", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerifiedResponse{Wallet: wallet.String(), Topics: raw, Verified: verified})
}

func parseTopicQuery(q string) ([]domain.ClaimTopic, []uint64, error) {
	topics := []domain.ClaimTopic{}
	raw := []uint64{}
	if strings.TrimSpace(q) == "" {
		return topics, raw, nil
	}
	parts := strings.Split(q, ",")
	if len(parts) > MaxBatchSize {
		return nil, nil, dErrors.Newf(dErrors.CodeValidation, "topics must have at most %d entries", MaxBatchSize)
	}
	for _, p := range parts {
		t, err := domain.ParseClaimTopic(p)
		if err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeValidation, "topics must be a comma separated list of integers")
		}
		topics = append(topics, t)
		raw = append(raw, uint64(t))
	}
	return topics, raw, nil
}

func (h *IdentityHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterIdentityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.RegisterIdentity(ctx, req.parsedWallet, req.parsedIdentity, domain.CountryCode(req.Country)); err != nil {
		h.fail(ctx, w, "register identity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IdentityResponse{
		Wallet:   req.parsedWallet.String(),
		Identity: req.parsedIdentity.String(),
		Country:  req.Country,
	})
}

func (h *IdentityHandler) handleBatchRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchRegisterIdentityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.BatchRegisterIdentity(ctx, req.parsedWallets, req.parsedIdentities, req.parsedCountries); err != nil {
		h.fail(ctx, w, "batch register identity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, OperationResponse{Operation: "batch_register_identity", Count: len(req.parsedWallets)})
}

func (h *IdentityHandler) handleUpdateIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateIdentityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdateIdentity(ctx, wallet, req.parsedIdentity); err != nil {
		h.fail(ctx, w, "update identity", err)
		return
	}
	h.writeRecord(ctx, w, wallet)
}

func (h *IdentityHandler) handleUpdateCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCountryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.UpdateCountry(ctx, wallet, domain.CountryCode(*req.Country)); err != nil {
		h.fail(ctx, w, "update country", err)
		return
	}
	h.writeRecord(ctx, w, wallet)
}

func (h *IdentityHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteIdentity(ctx, wallet); err != nil {
		h.fail(ctx, w, "delete identity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IdentityHandler) writeRecord(ctx context.Context, w http.ResponseWriter, wallet domain.Address) {
	record, err := h.service.Record(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "get identity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(record))
}

func (h *IdentityHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logError(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
