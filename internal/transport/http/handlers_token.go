package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tokenguard/internal/token/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// TokenService is the ledger surface exposed over HTTP.
type TokenService interface {
	Settings() models.Settings
	BalanceOf(ctx context.Context, account domain.Address) (decimal.Decimal, error)
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
	Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error
	Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) error
	Burn(ctx context.Context, from domain.Address, amount decimal.Decimal) error
	ForcedTransfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error
	BatchMint(ctx context.Context, tos []domain.Address, amounts []decimal.Decimal) error
	BatchBurn(ctx context.Context, froms []domain.Address, amounts []decimal.Decimal) error
	BatchTransfer(ctx context.Context, from domain.Address, tos []domain.Address, amounts []decimal.Decimal) error
	BatchForcedTransfer(ctx context.Context, froms, tos []domain.Address, amounts []decimal.Decimal) error
	RecoverWallet(ctx context.Context, lost, replacement, identity domain.Address) error
	RecoverForeignAsset(ctx context.Context, asset, to domain.Address, amount decimal.Decimal) error
	SetRequiredClaimTopics(ctx context.Context, topics []domain.ClaimTopic) error
}

// TokenHandler wires ledger endpoints to the dispatcher.
type TokenHandler struct {
	service TokenService
	logger  *slog.Logger
}

func NewTokenHandler(service TokenService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{service: service, logger: logger}
}

// Register mounts the endpoints any authenticated caller may use.
func (h *TokenHandler) Register(r chi.Router) {
	r.Get("/token", h.handleGetToken)
	r.Get("/balances/{wallet}", h.handleGetBalance)
	r.Post("/transfers", h.handleTransfer)
}

// RegisterAgent mounts the endpoints reserved for the agent role.
func (h *TokenHandler) RegisterAgent(r chi.Router) {
	r.Post("/mint", h.handleMint)
	r.Post("/burn", h.handleBurn)
	r.Post("/forced-transfers", h.handleForcedTransfer)
	r.Post("/batch/mint", h.handleBatchMint)
	r.Post("/batch/burn", h.handleBatchBurn)
	r.Post("/batch/transfers", h.handleBatchTransfer)
	r.Post("/batch/forced-transfers", h.handleBatchForcedTransfer)
	r.Post("/recovery/wallet", h.handleRecoverWallet)
	r.Post("/recovery/asset", h.handleRecoverAsset)
	r.Put("/settings/claim-topics", h.handleSetClaimTopics)
}

func (h *TokenHandler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supply, err := h.service.TotalSupply(ctx)
	if err != nil {
		h.fail(ctx, w, "get token", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(h.service.Settings(), supply))
}

func (h *TokenHandler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := parseAddress("wallet", chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	balance, err := h.service.BalanceOf(ctx, wallet)
	if err != nil {
		h.fail(ctx, w, "get balance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{Wallet: wallet.String(), Balance: balance.String()})
}

func (h *TokenHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	h.respond(ctx, w, "transfer", 1, h.service.Transfer(ctx, caller, req.parsedTo, req.parsedAmount))
}

func (h *TokenHandler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "mint", 1, h.service.Mint(ctx, req.parsedTo, req.parsedAmount))
}

func (h *TokenHandler) handleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BurnRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "burn", 1, h.service.Burn(ctx, req.parsedFrom, req.parsedAmount))
}

func (h *TokenHandler) handleForcedTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ForcedTransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "forced_transfer", 1, h.service.ForcedTransfer(ctx, req.parsedFrom, req.parsedTo, req.parsedAmount))
}

func (h *TokenHandler) handleBatchMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchMintRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "batch_mint", len(req.parsedTo), h.service.BatchMint(ctx, req.parsedTo, req.parsedAmounts))
}

func (h *TokenHandler) handleBatchBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchBurnRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "batch_burn", len(req.parsedFrom), h.service.BatchBurn(ctx, req.parsedFrom, req.parsedAmounts))
}

func (h *TokenHandler) handleBatchTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[BatchTransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "batch_transfer", len(req.parsedTo), h.service.BatchTransfer(ctx, caller, req.parsedTo, req.parsedAmounts))
}

func (h *TokenHandler) handleBatchForcedTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchForcedTransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	err := h.service.BatchForcedTransfer(ctx, req.parsedFrom, req.parsedTo, req.parsedAmounts)
	h.respond(ctx, w, "batch_forced_transfer", len(req.parsedFrom), err)
}

func (h *TokenHandler) handleRecoverWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RecoverWalletRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "recover_wallet", 1, h.service.RecoverWallet(ctx, req.parsedLost, req.parsedNew, req.parsedIdentity))
}

func (h *TokenHandler) handleRecoverAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RecoverAssetRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "recover_asset", 1, h.service.RecoverForeignAsset(ctx, req.parsedAsset, req.parsedTo, req.parsedAmount))
}

func (h *TokenHandler) handleSetClaimTopics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ClaimTopicsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(ctx, w, "set_claim_topics", len(req.parsedTopics), h.service.SetRequiredClaimTopics(ctx, req.parsedTopics))
}

// respond writes the acknowledgement for op, or the error it failed with.
func (h *TokenHandler) respond(ctx context.Context, w http.ResponseWriter, op string, count int, err error) {
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	h.logger.InfoContext(ctx, "ledger operation committed",
		"request_id", requestcontext.RequestID(ctx),
		"caller", requestcontext.Caller(ctx).String(),
		"op", op,
		"count", count,
	)
	httputil.WriteJSON(w, http.StatusOK, OperationResponse{Operation: op, Count: count})
}

func (h *TokenHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logError(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}

// logError logs internal failures at error level and rejections at warn.
func logError(ctx context.Context, logger *slog.Logger, op string, err error) {
	code := dErrors.CodeOf(err)
	level := slog.LevelWarn
	if code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	logger.Log(ctx, level, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"caller", requestcontext.Caller(ctx).String(),
		"code", string(code),
		"error", err,
	)
}
