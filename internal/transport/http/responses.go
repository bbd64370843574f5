package httptransport

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"tokenguard/internal/compliance"
	identityModels "tokenguard/internal/identity/models"
	tokenModels "tokenguard/internal/token/models"
	"tokenguard/pkg/domain"
)

type BalanceResponse struct {
	Wallet  string `json:"wallet"`
	Balance string `json:"balance"`
}

// TokenResponse describes the ledger and its current supply.
type TokenResponse struct {
	tokenModels.Settings
	TotalSupply string `json:"total_supply"`
}

func toTokenResponse(s tokenModels.Settings, supply decimal.Decimal) TokenResponse {
	if s.RequiredClaimTopics == nil {
		s.RequiredClaimTopics = []domain.ClaimTopic{}
	}
	return TokenResponse{Settings: s, TotalSupply: supply.String()}
}

// OperationResponse acknowledges a committed ledger or registry change.
type OperationResponse struct {
	Operation string `json:"operation"`
	Count     int    `json:"count"`
}

type IdentityResponse struct {
	Wallet   string `json:"wallet"`
	Identity string `json:"identity"`
	Country  uint16 `json:"country"`
}

func toIdentityResponse(r identityModels.IdentityRecord) IdentityResponse {
	return IdentityResponse{
		Wallet:   r.Wallet.String(),
		Identity: r.Identity.String(),
		Country:  uint16(r.Country),
	}
}

type VerifiedResponse struct {
	Wallet   string   `json:"wallet"`
	Topics   []uint64 `json:"topics"`
	Verified bool     `json:"verified"`
}

type ModuleResponse struct {
	Ref    string          `json:"ref"`
	Params json.RawMessage `json:"params"`
}

type ModulesResponse struct {
	Modules []ModuleResponse `json:"modules"`
}

// toModuleResponse passes JSON parameters through and renders anything else
// as a JSON string.
func toModuleResponse(e compliance.ModuleEntry) ModuleResponse {
	params := json.RawMessage("null")
	switch {
	case len(e.Params) == 0:
	case json.Valid(e.Params):
		params = json.RawMessage(e.Params)
	default:
		encoded, _ := json.Marshal(string(e.Params))
		params = encoded
	}
	return ModuleResponse{Ref: e.Ref.String(), Params: params}
}

type TopicsResponse struct {
	Topics []uint64 `json:"topics"`
}

func toTopicsResponse(topics []domain.ClaimTopic) TopicsResponse {
	out := make([]uint64, len(topics))
	for i, t := range topics {
		out[i] = uint64(t)
	}
	return TopicsResponse{Topics: out}
}

type TrustedIssuerResponse struct {
	Issuer string   `json:"issuer"`
	Topics []uint64 `json:"topics"`
}

type TrustedIssuersResponse struct {
	Issuers []TrustedIssuerResponse `json:"issuers"`
}

func toTrustedIssuersResponse(issuers []identityModels.TrustedIssuer) TrustedIssuersResponse {
	out := make([]TrustedIssuerResponse, len(issuers))
	for i, ti := range issuers {
		out[i] = TrustedIssuerResponse{Issuer: ti.Issuer.String(), Topics: toTopicsResponse(ti.Topics).Topics}
	}
	return TrustedIssuersResponse{Issuers: out}
}

type ClaimResponse struct {
	Identity string `json:"identity"`
	ClaimID  string `json:"claim_id"`
}
