package httptransport

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	identityModels "tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

// MaxBatchSize bounds the element count of every batch request.
const MaxBatchSize = 200

// Transfers never burn; supply only leaves through /v1/burn.
var errZeroRecipient = dErrors.New(dErrors.CodeZeroAddress, "to must not be the zero address")

func parseAddress(field, s string) (domain.Address, error) {
	a, err := domain.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return domain.Address{}, dErrors.Newf(dErrors.CodeValidation, "%s must be 0x followed by 40 hex characters", field)
	}
	return a, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, dErrors.Newf(dErrors.CodeValidation, "%s is required", field)
	}
	d, err := domain.ParseAmount(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeValidation, field+" must be a non-negative integer")
	}
	return d, nil
}

func checkBatch(field string, n int) error {
	if n == 0 {
		return dErrors.Newf(dErrors.CodeValidation, "%s must not be empty", field)
	}
	if n > MaxBatchSize {
		return dErrors.Newf(dErrors.CodeValidation, "%s must have at most %d entries", field, MaxBatchSize)
	}
	return nil
}

func parseAddresses(field string, in []string) ([]domain.Address, error) {
	if err := checkBatch(field, len(in)); err != nil {
		return nil, err
	}
	out := make([]domain.Address, len(in))
	for i, s := range in {
		a, err := parseAddress(field, s)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func parseAmounts(field string, in []string) ([]decimal.Decimal, error) {
	if err := checkBatch(field, len(in)); err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, len(in))
	for i, s := range in {
		d, err := parseAmount(field, s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func parseTopics(in []uint64) []domain.ClaimTopic {
	out := make([]domain.ClaimTopic, len(in))
	for i, t := range in {
		out[i] = domain.ClaimTopic(t)
	}
	return out
}

// TransferRequest is the body of POST /v1/transfers. The sender is the caller.
type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`

	parsedTo     domain.Address
	parsedAmount decimal.Decimal
}

func (r *TransferRequest) Validate() error {
	var err error
	if r.parsedTo, err = parseAddress("to", r.To); err != nil {
		return err
	}
	if r.parsedTo.IsZero() {
		return errZeroRecipient
	}
	r.parsedAmount, err = parseAmount("amount", r.Amount)
	return err
}

// MintRequest is the body of POST /v1/mint.
type MintRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`

	parsedTo     domain.Address
	parsedAmount decimal.Decimal
}

func (r *MintRequest) Validate() error {
	var err error
	if r.parsedTo, err = parseAddress("to", r.To); err != nil {
		return err
	}
	r.parsedAmount, err = parseAmount("amount", r.Amount)
	return err
}

// BurnRequest is the body of POST /v1/burn.
type BurnRequest struct {
	From   string `json:"from"`
	Amount string `json:"amount"`

	parsedFrom   domain.Address
	parsedAmount decimal.Decimal
}

func (r *BurnRequest) Validate() error {
	var err error
	if r.parsedFrom, err = parseAddress("from", r.From); err != nil {
		return err
	}
	r.parsedAmount, err = parseAmount("amount", r.Amount)
	return err
}

// ForcedTransferRequest is the body of POST /v1/forced-transfers.
type ForcedTransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`

	parsedFrom   domain.Address
	parsedTo     domain.Address
	parsedAmount decimal.Decimal
}

func (r *ForcedTransferRequest) Validate() error {
	var err error
	if r.parsedFrom, err = parseAddress("from", r.From); err != nil {
		return err
	}
	if r.parsedTo, err = parseAddress("to", r.To); err != nil {
		return err
	}
	r.parsedAmount, err = parseAmount("amount", r.Amount)
	return err
}

// BatchMintRequest carries parallel recipient and amount lists. Unequal
// lengths are left for the ledger to reject.
type BatchMintRequest struct {
	To      []string `json:"to"`
	Amounts []string `json:"amounts"`

	parsedTo      []domain.Address
	parsedAmounts []decimal.Decimal
}

func (r *BatchMintRequest) Validate() error {
	var err error
	if r.parsedTo, err = parseAddresses("to", r.To); err != nil {
		return err
	}
	r.parsedAmounts, err = parseAmounts("amounts", r.Amounts)
	return err
}

type BatchBurnRequest struct {
	From    []string `json:"from"`
	Amounts []string `json:"amounts"`

	parsedFrom    []domain.Address
	parsedAmounts []decimal.Decimal
}

func (r *BatchBurnRequest) Validate() error {
	var err error
	if r.parsedFrom, err = parseAddresses("from", r.From); err != nil {
		return err
	}
	r.parsedAmounts, err = parseAmounts("amounts", r.Amounts)
	return err
}

// BatchTransferRequest sends from the caller to every recipient.
type BatchTransferRequest struct {
	To      []string `json:"to"`
	Amounts []string `json:"amounts"`

	parsedTo      []domain.Address
	parsedAmounts []decimal.Decimal
}

func (r *BatchTransferRequest) Validate() error {
	var err error
	if r.parsedTo, err = parseAddresses("to", r.To); err != nil {
		return err
	}
	if slices.ContainsFunc(r.parsedTo, domain.Address.IsZero) {
		return errZeroRecipient
	}
	r.parsedAmounts, err = parseAmounts("amounts", r.Amounts)
	return err
}

type BatchForcedTransferRequest struct {
	From    []string `json:"from"`
	To      []string `json:"to"`
	Amounts []string `json:"amounts"`

	parsedFrom    []domain.Address
	parsedTo      []domain.Address
	parsedAmounts []decimal.Decimal
}

func (r *BatchForcedTransferRequest) Validate() error {
	var err error
	if r.parsedFrom, err = parseAddresses("from", r.From); err != nil {
		return err
	}
	if r.parsedTo, err = parseAddresses("to", r.To); err != nil {
		return err
	}
	r.parsedAmounts, err = parseAmounts("amounts", r.Amounts)
	return err
}

// RecoverWalletRequest is the body of POST /v1/recovery/wallet.
type RecoverWalletRequest struct {
	LostWallet string `json:"lost_wallet"`
	NewWallet  string `json:"new_wallet"`
	Identity   string `json:"identity"`

	parsedLost     domain.Address
	parsedNew      domain.Address
	parsedIdentity domain.Address
}

func (r *RecoverWalletRequest) Validate() error {
	var err error
	if r.parsedLost, err = parseAddress("lost_wallet", r.LostWallet); err != nil {
		return err
	}
	if r.parsedNew, err = parseAddress("new_wallet", r.NewWallet); err != nil {
		return err
	}
	if r.parsedLost == r.parsedNew {
		return dErrors.New(dErrors.CodeBadRequest, "new_wallet must differ from lost_wallet")
	}
	r.parsedIdentity, err = parseAddress("identity", r.Identity)
	return err
}

// RecoverAssetRequest is the body of POST /v1/recovery/asset.
type RecoverAssetRequest struct {
	Asset  string `json:"asset"`
	To     string `json:"to"`
	Amount string `json:"amount"`

	parsedAsset  domain.Address
	parsedTo     domain.Address
	parsedAmount decimal.Decimal
}

func (r *RecoverAssetRequest) Validate() error {
	var err error
	if r.parsedAsset, err = parseAddress("asset", r.Asset); err != nil {
		return err
	}
	if r.parsedTo, err = parseAddress("to", r.To); err != nil {
		return err
	}
	r.parsedAmount, err = parseAmount("amount", r.Amount)
	return err
}

// ClaimTopicsRequest is the body of PUT /v1/settings/claim-topics.
type ClaimTopicsRequest struct {
	Topics []uint64 `json:"topics"`

	parsedTopics []domain.ClaimTopic
}

func (r *ClaimTopicsRequest) Validate() error {
	if r.Topics == nil {
		return dErrors.New(dErrors.CodeValidation, "topics is required")
	}
	if len(r.Topics) > MaxBatchSize {
		return dErrors.Newf(dErrors.CodeValidation, "topics must have at most %d entries", MaxBatchSize)
	}
	r.parsedTopics = parseTopics(r.Topics)
	return nil
}

// RegisterIdentityRequest is the body of POST /v1/identities.
type RegisterIdentityRequest struct {
	Wallet   string `json:"wallet"`
	Identity string `json:"identity"`
	Country  uint16 `json:"country"`

	parsedWallet   domain.Address
	parsedIdentity domain.Address
}

func (r *RegisterIdentityRequest) Validate() error {
	var err error
	if r.parsedWallet, err = parseAddress("wallet", r.Wallet); err != nil {
		return err
	}
	r.parsedIdentity, err = parseAddress("identity", r.Identity)
	return err
}

// BatchRegisterIdentityRequest is the body of POST /v1/identities/batch.
type BatchRegisterIdentityRequest struct {
	Wallets    []string `json:"wallets"`
	Identities []string `json:"identities"`
	Countries  []uint16 `json:"countries"`

	parsedWallets    []domain.Address
	parsedIdentities []domain.Address
	parsedCountries  []domain.CountryCode
}

func (r *BatchRegisterIdentityRequest) Validate() error {
	var err error
	if r.parsedWallets, err = parseAddresses("wallets", r.Wallets); err != nil {
		return err
	}
	if r.parsedIdentities, err = parseAddresses("identities", r.Identities); err != nil {
		return err
	}
	if err := checkBatch("countries", len(r.Countries)); err != nil {
		return err
	}
	r.parsedCountries = make([]domain.CountryCode, len(r.Countries))
	for i, c := range r.Countries {
		r.parsedCountries[i] = domain.CountryCode(c)
	}
	return nil
}

// UpdateIdentityRequest is the body of PUT /v1/identities/{wallet}.
type UpdateIdentityRequest struct {
	Identity string `json:"identity"`

	parsedIdentity domain.Address
}

func (r *UpdateIdentityRequest) Validate() error {
	var err error
	r.parsedIdentity, err = parseAddress("identity", r.Identity)
	return err
}

// UpdateCountryRequest is the body of PUT /v1/identities/{wallet}/country.
type UpdateCountryRequest struct {
	Country *uint16 `json:"country"`
}

func (r *UpdateCountryRequest) Validate() error {
	if r.Country == nil {
		return dErrors.New(dErrors.CodeValidation, "country is required")
	}
	return nil
}

// ModuleRequest binds one compliance module. Params is handed to the module
// verbatim.
type ModuleRequest struct {
	Ref    string          `json:"ref"`
	Params json.RawMessage `json:"params,omitempty"`

	parsedRef domain.Address
}

func (r *ModuleRequest) Validate() error {
	var err error
	r.parsedRef, err = parseAddress("ref", r.Ref)
	return err
}

// AddModulesRequest is the body of POST /v1/compliance/modules/batch.
type AddModulesRequest struct {
	Modules []ModuleRequest `json:"modules"`
}

func (r *AddModulesRequest) Validate() error {
	if err := checkBatch("modules", len(r.Modules)); err != nil {
		return err
	}
	for i := range r.Modules {
		if err := r.Modules[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ModuleParamsRequest is the body of PUT /v1/compliance/modules/{ref}.
type ModuleParamsRequest struct {
	Params json.RawMessage `json:"params"`
}

func (r *ModuleParamsRequest) Validate() error {
	if len(r.Params) == 0 {
		return dErrors.New(dErrors.CodeValidation, "params is required")
	}
	return nil
}

// TrustedIssuerRequest is the body of POST /v1/trusted-issuers/{issuer}.
// PublicKey is the issuer's base64 ed25519 key.
type TrustedIssuerRequest struct {
	PublicKey []byte   `json:"public_key"`
	Topics    []uint64 `json:"topics"`

	parsedTopics []domain.ClaimTopic
}

func (r *TrustedIssuerRequest) Validate() error {
	if len(r.PublicKey) == 0 {
		return dErrors.New(dErrors.CodeValidation, "public_key is required")
	}
	if len(r.Topics) == 0 {
		return dErrors.New(dErrors.CodeValidation, "topics is required")
	}
	r.parsedTopics = parseTopics(r.Topics)
	return nil
}

// IssuerTopicsRequest is the body of PUT /v1/trusted-issuers/{issuer}.
type IssuerTopicsRequest struct {
	Topics []uint64 `json:"topics"`

	parsedTopics []domain.ClaimTopic
}

func (r *IssuerTopicsRequest) Validate() error {
	if len(r.Topics) == 0 {
		return dErrors.New(dErrors.CodeValidation, "topics is required")
	}
	r.parsedTopics = parseTopics(r.Topics)
	return nil
}

// RevokeClaimRequest is the body of POST /v1/trusted-issuers/{issuer}/revocations.
type RevokeClaimRequest struct {
	Signature []byte `json:"signature"`
}

func (r *RevokeClaimRequest) Validate() error {
	if len(r.Signature) == 0 {
		return dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	return nil
}

// AddClaimRequest is the body of POST /v1/claims. Signature and data are
// base64.
type AddClaimRequest struct {
	Identity  string `json:"identity"`
	Topic     uint64 `json:"topic"`
	Scheme    uint64 `json:"scheme"`
	Issuer    string `json:"issuer"`
	Signature []byte `json:"signature"`
	Data      []byte `json:"data"`
	URI       string `json:"uri"`

	parsedIdentity domain.Address
	parsedClaim    identityModels.Claim
}

func (r *AddClaimRequest) Validate() error {
	var err error
	if r.parsedIdentity, err = parseAddress("identity", r.Identity); err != nil {
		return err
	}
	issuer, err := parseAddress("issuer", r.Issuer)
	if err != nil {
		return err
	}
	if len(r.Signature) == 0 {
		return dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	r.parsedClaim = identityModels.Claim{
		Topic:     domain.ClaimTopic(r.Topic),
		Scheme:    r.Scheme,
		Issuer:    issuer,
		Signature: r.Signature,
		Data:      r.Data,
		URI:       r.URI,
	}
	return nil
}
