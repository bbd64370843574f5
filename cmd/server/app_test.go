package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tokenguard/internal/identity/onchainid"
	"tokenguard/internal/platform/config"
	"tokenguard/internal/platform/middleware"
	"tokenguard/pkg/domain"
)

// Justification for these tests: they drive the fully wired process over
// HTTP with in-memory stores, proving the services, compliance modules and
// auth middleware are connected the way the server runs them.
type AppSuite struct {
	suite.Suite
	ctx    context.Context
	app    *app
	agent  string
	holder string
}

var (
	agentWallet = domain.MustParseAddress("0x00000000000000000000000000000000000000ad")
	alice       = domain.MustParseAddress("0x0000000000000000000000000000000000000a11")
	bob         = domain.MustParseAddress("0x0000000000000000000000000000000000000b0b")
	carol       = domain.MustParseAddress("0x0000000000000000000000000000000000000ca1")
)

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func testConfig(redisURL string) config.Server {
	return config.Server{
		Addr:          ":0",
		StoreBackend:  config.BackendMemory,
		JWTSigningKey: "app-test-key",
		JWTIssuer:     "tokenguard",
		Redis:         config.RedisConfig{URL: redisURL, PoolSize: 2},
		Audit:         config.AuditConfig{Buffer: 16},
		RateLimit: config.RateLimitConfig{
			Enabled: true,
			Window:  time.Minute,
			Read:    1000,
			Write:   1000,
			Agent:   1000,
		},
		Token: config.TokenConfig{
			Name:        "Test Security",
			Symbol:      "TST",
			Address:     "0x00000000000000000000000000000000000000a1",
			SupplyLimit: "1000",
		},
	}
}

func (s *AppSuite) SetupTest() {
	s.ctx = context.Background()
	mr := miniredis.RunT(s.T())

	a, err := buildApp(s.ctx, testConfig("redis://"+mr.Addr()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	s.T().Cleanup(a.close)
	s.app = a

	s.agent, err = a.jwt.GenerateAccessToken(agentWallet, middleware.RoleAgent, time.Hour)
	s.Require().NoError(err)
	s.holder, err = a.jwt.GenerateAccessToken(alice, middleware.RoleHolder, time.Hour)
	s.Require().NoError(err)

	for _, wallet := range []domain.Address{alice, bob} {
		status, body := s.do(s.agent, http.MethodPost, "/v1/identities", map[string]any{
			"wallet":   wallet.String(),
			"identity": wallet.String(),
			"country":  250,
		})
		s.Require().Equal(http.StatusCreated, status, string(body))
	}
}

func (s *AppSuite) do(token, method, path string, body any) (int, []byte) {
	return serve(s.T(), s.app.handler, token, method, path, body)
}

// serve sends one request through h, JSON-encoding body when it is set.
func serve(t *testing.T, h http.Handler, token, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *AppSuite) balance(wallet domain.Address) string {
	status, body := s.do(s.agent, http.MethodGet, "/v1/balances/"+wallet.String(), nil)
	s.Require().Equal(http.StatusOK, status)
	var resp struct {
		Balance string `json:"balance"`
	}
	s.Require().NoError(json.Unmarshal(body, &resp))
	return resp.Balance
}

func (s *AppSuite) errorCode(body []byte) string {
	return errorCode(s.T(), body)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}

func (s *AppSuite) TestMintAndTransfer() {
	status, body := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "600"})
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = s.do(s.holder, http.MethodPost, "/v1/transfers", map[string]string{"to": bob.String(), "amount": "100"})
	s.Require().Equal(http.StatusOK, status, string(body))

	s.Equal("500", s.balance(alice))
	s.Equal("100", s.balance(bob))
}

func (s *AppSuite) TestSupplyLimitBoundAtStartup() {
	status, body := s.do(s.agent, http.MethodGet, "/v1/compliance/modules", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(body), supplyLimitRef.String())

	status, _ = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "900"})
	s.Require().Equal(http.StatusOK, status)

	status, body = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": bob.String(), "amount": "101"})
	s.Equal(http.StatusUnprocessableEntity, status)
	s.Equal("mint_not_compliant", s.errorCode(body))
	s.Equal("0", s.balance(bob))
}

func (s *AppSuite) TestUnverifiedRecipientIsRejected() {
	status, _ := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "10"})
	s.Require().Equal(http.StatusOK, status)

	status, body := s.do(s.holder, http.MethodPost, "/v1/transfers", map[string]string{"to": carol.String(), "amount": "5"})
	s.Equal(http.StatusForbidden, status)
	s.Equal("recipient_not_verified", s.errorCode(body))
	s.Equal("10", s.balance(alice))
}

func (s *AppSuite) TestCountryRestrictionUsesIdentityRecords() {
	status, body := s.do(s.agent, http.MethodPost, "/v1/compliance/modules", map[string]any{
		"ref":    countryRestrictRef.String(),
		"params": map[string]any{"countries": []int{250}},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, _ = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "10"})
	s.Equal(http.StatusUnprocessableEntity, status)

	status, _ = s.do(s.agent, http.MethodPut, "/v1/identities/"+alice.String()+"/country", map[string]any{"country": 840})
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "10"})
	s.Equal(http.StatusOK, status)
}

func (s *AppSuite) TestHolderCannotBurnThroughTransfer() {
	status, _ := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "100"})
	s.Require().Equal(http.StatusOK, status)

	status, body := s.do(s.holder, http.MethodPost, "/v1/transfers", map[string]string{"to": domain.ZeroAddress.String(), "amount": "40"})
	s.Equal(http.StatusBadRequest, status)
	s.Equal("zero_address", s.errorCode(body))

	s.Equal("100", s.balance(alice))
	status, body = s.do(s.agent, http.MethodGet, "/v1/token", nil)
	s.Require().Equal(http.StatusOK, status)
	var token struct {
		TotalSupply string `json:"total_supply"`
	}
	s.Require().NoError(json.Unmarshal(body, &token))
	s.Equal("100", token.TotalSupply)
}

func (s *AppSuite) TestRequiredTopicVerifiesThroughTrustRoutes() {
	const topic = 7
	issuer := domain.MustParseAddress("0x00000000000000000000000000000000000000e1")
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
	data := []byte("kyc-passed")
	signature := onchainid.NewIssuerWithKey(issuer, key).Sign(alice, topic, data)
	mint := func() (int, []byte) {
		return s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "10"})
	}

	status, body := s.do(s.agent, http.MethodPut, "/v1/settings/claim-topics", map[string]any{"topics": []uint64{topic}})
	s.Require().Equal(http.StatusOK, status, string(body))
	status, body = mint()
	s.Equal(http.StatusForbidden, status)
	s.Equal("recipient_not_verified", s.errorCode(body))

	status, body = s.do(s.agent, http.MethodPost, "/v1/claim-topics/7", map[string]any{})
	s.Require().Equal(http.StatusCreated, status, string(body))
	status, body = s.do(s.agent, http.MethodPost, "/v1/trusted-issuers/"+issuer.String(), map[string]any{
		"public_key": []byte(pub),
		"topics":     []uint64{topic},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	status, _ = mint()
	s.Equal(http.StatusForbidden, status, "no claim yet")

	status, body = s.do(s.agent, http.MethodPost, "/v1/claims", map[string]any{
		"identity":  alice.String(),
		"topic":     topic,
		"scheme":    1,
		"issuer":    issuer.String(),
		"signature": signature,
		"data":      data,
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	status, body = mint()
	s.Require().Equal(http.StatusOK, status, string(body))
	s.Equal("10", s.balance(alice))

	status, body = s.do(s.agent, http.MethodPost, "/v1/trusted-issuers/"+issuer.String()+"/revocations", map[string]any{"signature": signature})
	s.Require().Equal(http.StatusOK, status, string(body))
	status, _ = mint()
	s.Equal(http.StatusForbidden, status)
	s.Equal("10", s.balance(alice))
}

func (s *AppSuite) TestMaxBalanceBoundLateMirrorsLedger() {
	status, _ := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "400"})
	s.Require().Equal(http.StatusOK, status)

	status, body := s.do(s.agent, http.MethodPost, "/v1/compliance/modules", map[string]any{
		"ref":    maxBalanceRef.String(),
		"params": map[string]any{"max": "500"},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "200"})
	s.Equal(http.StatusUnprocessableEntity, status, "existing holdings count against the cap")
	s.Equal("mint_not_compliant", s.errorCode(body))

	status, _ = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "100"})
	s.Equal(http.StatusOK, status)
	s.Equal("500", s.balance(alice))
}

func (s *AppSuite) TestHolderCannotMint() {
	status, body := s.do(s.holder, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "1"})
	s.Equal(http.StatusForbidden, status)
	s.Equal("forbidden", s.errorCode(body))
}

func (s *AppSuite) TestRevokedTokenIsRejected() {
	claims, err := s.app.jwt.ValidateToken(s.holder)
	s.Require().NoError(err)

	status, _ := s.do(s.agent, http.MethodPost, "/v1/tokens/revocations", map[string]any{
		"jti":                claims.ID,
		"expires_in_seconds": 3600,
	})
	s.Require().Equal(http.StatusNoContent, status)

	status, _ = s.do(s.holder, http.MethodGet, "/v1/balances/"+alice.String(), nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *AppSuite) TestHealthReportsRedis() {
	status, body := s.do("", http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(body), "redis")
}

func (s *AppSuite) TestHolderWritesAreRateLimited() {
	cfg := testConfig("")
	cfg.RateLimit.Write = 1
	a, err := buildApp(s.ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	s.T().Cleanup(a.close)
	s.app = a
	holder, err := a.jwt.GenerateAccessToken(alice, middleware.RoleHolder, time.Hour)
	s.Require().NoError(err)

	body := map[string]string{"to": bob.String(), "amount": "0"}
	status, _ := s.do(holder, http.MethodPost, "/v1/transfers", body)
	s.NotEqual(http.StatusTooManyRequests, status)
	status, resp := s.do(holder, http.MethodPost, "/v1/transfers", body)
	s.Equal(http.StatusTooManyRequests, status)
	s.Equal("rate_limit_exceeded", s.errorCode(resp))
}

func TestBuildAppRejectsInvalidConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("malformed token address", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Token.Address = "not-an-address"
		_, err := buildApp(context.Background(), cfg, logger)
		if err == nil {
			t.Fatal("expected error for malformed TOKEN_ADDRESS")
		}
	})

	t.Run("kafka without outbox", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Kafka.Brokers = []string{"localhost:9092"}
		_, err := buildApp(context.Background(), cfg, logger)
		if err == nil {
			t.Fatal("expected error when KAFKA_BROKERS is set without DATABASE_URL")
		}
	})

	t.Run("invalid supply limit", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Token.SupplyLimit = "-5"
		_, err := buildApp(context.Background(), cfg, logger)
		if err == nil {
			t.Fatal("expected error for negative SUPPLY_LIMIT")
		}
	})
}
