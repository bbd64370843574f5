package httptransport

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"tokenguard/internal/identity/catalog"
	"tokenguard/internal/identity/onchainid"
	identityservice "tokenguard/internal/identity/service"
	"tokenguard/pkg/domain"
)

// Justification for unit tests: the trust endpoints decode keys and
// signatures from base64 and map catalogue errors to statuses. The real
// catalogues are cheap, so they back the handler instead of a mock.
type TrustHandlerSuite struct {
	suite.Suite
	issuers *catalog.TrustedIssuers
	router  http.Handler
	issuer  domain.Address
	key     ed25519.PrivateKey
	pub     ed25519.PublicKey
}

func TestTrustHandlerSuite(t *testing.T) {
	suite.Run(t, new(TrustHandlerSuite))
}

func (s *TrustHandlerSuite) SetupTest() {
	topics, err := catalog.NewTopicSchemes()
	s.Require().NoError(err)
	s.issuers = catalog.NewTrustedIssuers()
	trust, err := identityservice.NewTrust(topics, s.issuers, onchainid.NewDirectory(), identityservice.WithTrustLogger(discard))
	s.Require().NoError(err)
	s.router = newTestRouter(NewTrustHandler(trust, discard), agent)

	s.issuer = domain.BytesToAddress([]byte{0x15, 0x01})
	s.pub, s.key, err = ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
}

func (s *TrustHandlerSuite) TestTopics() {
	status, _ := do(s.T(), s.router, http.MethodPost, "/claim-topics/7", nil)
	s.Equal(http.StatusCreated, status)

	status, body := do(s.T(), s.router, http.MethodPost, "/claim-topics/7", nil)
	s.Equal(http.StatusConflict, status)
	s.Equal("conflict", body["error"])

	status, body = do(s.T(), s.router, http.MethodGet, "/claim-topics", nil)
	s.Equal(http.StatusOK, status)
	s.Equal([]any{float64(7)}, body["topics"])

	status, _ = do(s.T(), s.router, http.MethodPost, "/claim-topics/seven", nil)
	s.Equal(http.StatusBadRequest, status)

	status, _ = do(s.T(), s.router, http.MethodDelete, "/claim-topics/7", nil)
	s.Equal(http.StatusOK, status)
	status, _ = do(s.T(), s.router, http.MethodDelete, "/claim-topics/7", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *TrustHandlerSuite) TestTrustedIssuerLifecycle() {
	path := "/trusted-issuers/" + s.issuer.String()

	status, _ := do(s.T(), s.router, http.MethodPost, path, map[string]any{"public_key": []byte(s.pub), "topics": []uint64{7}})
	s.Equal(http.StatusCreated, status)
	s.True(s.issuers.HasClaimTopic(s.issuer, 7))

	status, body := do(s.T(), s.router, http.MethodGet, "/trusted-issuers", nil)
	s.Equal(http.StatusOK, status)
	s.Len(body["issuers"], 1)

	status, _ = do(s.T(), s.router, http.MethodPut, path, map[string]any{"topics": []uint64{8}})
	s.Equal(http.StatusOK, status)
	s.True(s.issuers.HasClaimTopic(s.issuer, 8))

	status, _ = do(s.T(), s.router, http.MethodDelete, path, nil)
	s.Equal(http.StatusOK, status)
	s.False(s.issuers.IsTrustedIssuer(s.issuer))
}

func (s *TrustHandlerSuite) TestTrustedIssuerValidation() {
	path := "/trusted-issuers/" + s.issuer.String()
	for name, req := range map[string]map[string]any{
		"missing key":    {"topics": []uint64{7}},
		"missing topics": {"public_key": []byte(s.pub)},
		"short key":      {"public_key": []byte("short"), "topics": []uint64{7}},
	} {
		s.Run(name, func() {
			status, body := do(s.T(), s.router, http.MethodPost, path, req)
			s.Equal(http.StatusBadRequest, status)
			s.Equal("validation_error", body["error"])
		})
	}
	s.False(s.issuers.IsTrustedIssuer(s.issuer))
}

func (s *TrustHandlerSuite) TestClaims() {
	identity := domain.BytesToAddress([]byte{0x1d, 0x01})
	signer := onchainid.NewIssuerWithKey(s.issuer, s.key)
	sig := signer.Sign(identity, 7, []byte("ok"))
	status, _ := do(s.T(), s.router, http.MethodPost, "/trusted-issuers/"+s.issuer.String(),
		map[string]any{"public_key": []byte(s.pub), "topics": []uint64{7}})
	s.Require().Equal(http.StatusCreated, status)

	status, body := do(s.T(), s.router, http.MethodPost, "/claims", map[string]any{
		"identity":  identity.String(),
		"topic":     7,
		"scheme":    1,
		"issuer":    s.issuer.String(),
		"signature": sig,
		"data":      []byte("ok"),
	})
	s.Equal(http.StatusCreated, status)
	s.Equal(domain.ComputeClaimID(s.issuer, 7).String(), body["claim_id"])

	status, _ = do(s.T(), s.router, http.MethodPost, "/trusted-issuers/"+s.issuer.String()+"/revocations",
		map[string]any{"signature": sig})
	s.Equal(http.StatusOK, status)

	claimPath := "/claims/" + identity.String() + "/" + s.issuer.String() + "/" + strconv.Itoa(7)
	status, _ = do(s.T(), s.router, http.MethodDelete, claimPath, nil)
	s.Equal(http.StatusOK, status)
	status, _ = do(s.T(), s.router, http.MethodDelete, claimPath, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = do(s.T(), s.router, http.MethodPost, "/claims", map[string]any{"identity": identity.String(), "issuer": s.issuer.String()})
	s.Equal(http.StatusBadRequest, status)
}
