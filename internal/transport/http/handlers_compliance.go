package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// ComplianceRegistry is the module registry surface exposed over HTTP.
type ComplianceRegistry interface {
	AddModule(ctx context.Context, ref domain.Address, params []byte) error
	AddModules(ctx context.Context, entries []compliance.ModuleEntry) error
	RemoveModule(ctx context.Context, ref domain.Address) error
	SetModuleParameters(ctx context.Context, ref domain.Address, params []byte) error
	ListModules() []compliance.ModuleEntry
	ModuleParameters(ref domain.Address) ([]byte, error)
}

// ComplianceHandler wires module registry endpoints.
type ComplianceHandler struct {
	registry ComplianceRegistry
	logger   *slog.Logger
}

func NewComplianceHandler(registry ComplianceRegistry, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{registry: registry, logger: logger}
}

func (h *ComplianceHandler) Register(r chi.Router) {
	r.Get("/compliance/modules", h.handleList)
	r.Get("/compliance/modules/{ref}", h.handleGet)
}

func (h *ComplianceHandler) RegisterAgent(r chi.Router) {
	r.Post("/compliance/modules", h.handleAdd)
	r.Post("/compliance/modules/batch", h.handleAddBatch)
	r.Put("/compliance/modules/{ref}", h.handleSetParams)
	r.Delete("/compliance/modules/{ref}", h.handleRemove)
}

func (h *ComplianceHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	entries := h.registry.ListModules()
	resp := ModulesResponse{Modules: make([]ModuleResponse, len(entries))}
	for i, e := range entries {
		resp.Modules[i] = toModuleResponse(e)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *ComplianceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ref, err := parseAddress("ref", chi.URLParam(r, "ref"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	params, err := h.registry.ModuleParameters(ref)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toModuleResponse(compliance.ModuleEntry{Ref: ref, Params: params}))
}

func (h *ComplianceHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ModuleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.registry.AddModule(ctx, req.parsedRef, req.Params); err != nil {
		h.fail(ctx, w, "add module", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toModuleResponse(compliance.ModuleEntry{Ref: req.parsedRef, Params: req.Params}))
}

func (h *ComplianceHandler) handleAddBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AddModulesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	entries := make([]compliance.ModuleEntry, len(req.Modules))
	for i, m := range req.Modules {
		entries[i] = compliance.ModuleEntry{Ref: m.parsedRef, Params: m.Params}
	}
	if err := h.registry.AddModules(ctx, entries); err != nil {
		h.fail(ctx, w, "add modules", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, OperationResponse{Operation: "add_modules", Count: len(entries)})
}

func (h *ComplianceHandler) handleSetParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, err := parseAddress("ref", chi.URLParam(r, "ref"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ModuleParamsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.registry.SetModuleParameters(ctx, ref, req.Params); err != nil {
		h.fail(ctx, w, "set module parameters", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toModuleResponse(compliance.ModuleEntry{Ref: ref, Params: req.Params}))
}

func (h *ComplianceHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, err := parseAddress("ref", chi.URLParam(r, "ref"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.RemoveModule(ctx, ref); err != nil {
		h.fail(ctx, w, "remove module", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ComplianceHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logError(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
