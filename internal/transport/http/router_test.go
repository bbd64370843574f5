package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	jwttoken "tokenguard/internal/jwt_token"
	"tokenguard/internal/platform/metrics"
	"tokenguard/internal/platform/middleware"
	"tokenguard/internal/transport/http/mocks"
	"tokenguard/pkg/testutil"
)

type revokedSet map[string]bool

func (r revokedSet) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

type routerFixture struct {
	router  http.Handler
	token   *mocks.MockTokenService
	revoker *mocks.MockTokenRevoker
	jwt     *jwttoken.JWTService
	revoked revokedSet
	healthy *bool
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	reg := prometheus.NewRegistry()
	healthy := true
	f := &routerFixture{
		token:   mocks.NewMockTokenService(ctrl),
		revoker: mocks.NewMockTokenRevoker(ctrl),
		jwt:     jwttoken.NewJWTService("router-test-key", "tokenguard", "tokenguard-api"),
		revoked: revokedSet{},
		healthy: &healthy,
	}
	f.router = NewRouter(RouterConfig{
		Logger:      discard,
		Metrics:     metrics.New(reg),
		Gatherer:    reg,
		Validator:   jwttoken.NewJWTServiceAdapter(f.jwt),
		Revocations: f.revoked,
		HealthChecks: map[string]HealthCheck{
			"ledger": func(context.Context) error {
				if !*f.healthy {
					return errors.New("down")
				}
				return nil
			},
		},
		Token:      NewTokenHandler(f.token, discard),
		Identity:   NewIdentityHandler(mocks.NewMockIdentityService(ctrl), discard),
		Compliance: NewComplianceHandler(mocks.NewMockComplianceRegistry(ctrl), discard),
		Auth:       NewAuthHandler(f.revoker, discard),
	})
	return f
}

func (f *routerFixture) bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(agent, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *routerFixture) serve(t *testing.T, method, path, authorization, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewRequestWithBody(t, method, path, body)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return testutil.DoRequest(f.router, req)
}

func TestRouterAuthentication(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("v1 requires a token", func(t *testing.T) {
		rec := f.serve(t, http.MethodGet, "/v1/balances/"+alice.String(), "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("holders may read balances", func(t *testing.T) {
		f.token.EXPECT().BalanceOf(gomock.Any(), alice).Return(decimal.NewFromInt(3), nil)
		rec := f.serve(t, http.MethodGet, "/v1/balances/"+alice.String(), f.bearer(t, middleware.RoleHolder), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("holders may transfer their own tokens", func(t *testing.T) {
		f.token.EXPECT().Transfer(gomock.Any(), agent, bob, amount(1)).Return(nil)
		rec := f.serve(t, http.MethodPost, "/v1/transfers", f.bearer(t, middleware.RoleHolder),
			`{"to":"`+bob.String()+`","amount":"1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("holders may not mint", func(t *testing.T) {
		rec := f.serve(t, http.MethodPost, "/v1/mint", f.bearer(t, middleware.RoleHolder),
			`{"to":"`+alice.String()+`","amount":"1"}`)
		testutil.AssertStatusAndError(t, rec, http.StatusForbidden, "forbidden")
	})

	t.Run("agents may mint", func(t *testing.T) {
		f.token.EXPECT().Mint(gomock.Any(), alice, amount(1)).Return(nil)
		rec := f.serve(t, http.MethodPost, "/v1/mint", f.bearer(t, middleware.RoleAgent),
			`{"to":"`+alice.String()+`","amount":"1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("revoked tokens are refused", func(t *testing.T) {
		auth := f.bearer(t, middleware.RoleAgent)
		claims, err := f.jwt.ValidateToken(strings.TrimPrefix(auth, "Bearer "))
		require.NoError(t, err)
		f.revoked[claims.ID] = true

		rec := f.serve(t, http.MethodGet, "/v1/balances/"+alice.String(), auth, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non JSON bodies are refused", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/mint", "to=x")
		req.Header.Set("Authorization", f.bearer(t, middleware.RoleAgent))
		req.Header.Set("Content-Type", "text/plain")
		rec := testutil.DoRequest(f.router, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestRouterRevokeToken(t *testing.T) {
	f := newRouterFixture(t)
	f.revoker.EXPECT().Revoke(gomock.Any(), "jti-9", 90*time.Second).Return(nil)

	rec := f.serve(t, http.MethodPost, "/v1/tokens/revocations", f.bearer(t, middleware.RoleAgent),
		`{"jti":"jti-9","expires_in_seconds":90}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.serve(t, http.MethodPost, "/v1/tokens/revocations", f.bearer(t, middleware.RoleAgent),
		`{"jti":"jti-9","expires_in_seconds":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])

	*f.healthy = false
	rec = f.serve(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.serve(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tokenguard_http_requests_total")
}
