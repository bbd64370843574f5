//go:build integration

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tokenguard/internal/platform/config"
	"tokenguard/internal/platform/middleware"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/testutil/containers"
)

// Justification for these tests: the module chain and the ledger live in
// Postgres, so a rebuilt process must come back with the same modules bound
// and their state mirrored from the persisted balances.
type RestartSuite struct {
	suite.Suite
	ctx   context.Context
	cfg   config.Server
	app   *app
	agent string
}

func TestRestartSuite(t *testing.T) {
	suite.Run(t, new(RestartSuite))
}

func (s *RestartSuite) SetupTest() {
	s.ctx = context.Background()
	s.app = nil
	pg := containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(pg.TruncateTables(s.ctx, "identities", "lost_wallets", "compliance_modules", "balances", "supply", "outbox"))

	s.cfg = testConfig("")
	s.cfg.DatabaseURL = pg.DSN
	s.cfg.StoreBackend = config.BackendPostgres
	s.restart()

	for _, wallet := range []domain.Address{alice, bob} {
		status, body := s.do(s.agent, http.MethodPost, "/v1/identities", map[string]any{
			"wallet":   wallet.String(),
			"identity": wallet.String(),
			"country":  250,
		})
		s.Require().Equal(http.StatusCreated, status, string(body))
	}
}

// restart closes the running app, if any, and builds a fresh one on the same database.
func (s *RestartSuite) restart() {
	if s.app != nil {
		s.app.close()
		s.app = nil
	}
	a, err := buildApp(s.ctx, s.cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	s.app = a

	s.agent, err = a.jwt.GenerateAccessToken(agentWallet, middleware.RoleAgent, time.Hour)
	s.Require().NoError(err)
}

func (s *RestartSuite) TearDownTest() {
	if s.app != nil {
		s.app.close()
	}
}

func (s *RestartSuite) do(token, method, path string, body any) (int, []byte) {
	return serve(s.T(), s.app.handler, token, method, path, body)
}

func (s *RestartSuite) errorCode(body []byte) string {
	return errorCode(s.T(), body)
}

func (s *RestartSuite) TestModuleChainSurvivesRestart() {
	status, body := s.do(s.agent, http.MethodPost, "/v1/compliance/modules", map[string]any{
		"ref":    maxBalanceRef.String(),
		"params": map[string]any{"max": "600"},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	status, _ = s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "400"})
	s.Require().Equal(http.StatusOK, status)
	before := s.app.compliance.ListModules()

	s.restart()

	s.Equal(before, s.app.compliance.ListModules(), "same modules in the same order")

	s.Run("max balance is seeded from persisted holdings", func() {
		status, body := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "201"})
		s.Equal(http.StatusUnprocessableEntity, status)
		s.Equal("mint_not_compliant", s.errorCode(body))
	})

	s.Run("supply limit is seeded from persisted supply", func() {
		status, _ := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": bob.String(), "amount": "599"})
		s.Require().Equal(http.StatusOK, status)
		status, body := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "2"})
		s.Equal(http.StatusUnprocessableEntity, status)
		s.Equal("mint_not_compliant", s.errorCode(body))
	})
}

func (s *RestartSuite) TestChangedSupplyLimitIsAppliedOnRestart() {
	s.cfg.Token.SupplyLimit = "50"
	s.restart()

	params, err := s.app.compliance.ModuleParameters(supplyLimitRef)
	s.Require().NoError(err)
	s.JSONEq(`{"limit":"50"}`, string(params))
	s.Len(s.app.compliance.ListModules(), 1, "restored binding is updated, not duplicated")

	status, _ := s.do(s.agent, http.MethodPost, "/v1/mint", map[string]string{"to": alice.String(), "amount": "51"})
	s.Equal(http.StatusUnprocessableEntity, status)
}
