package ledger

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Wallet(alias string) string
	UseTokenFor(alias, role string) error
	GET(path string) error
	POST(path string, body any) error
	PUT(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers identity and balance step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ledgerSteps{tc: tc}

	// Identity registry
	ctx.Step(`^"([^"]*)" is registered with country (\d+)$`, steps.registerIdentity)
	ctx.Step(`^I register "([^"]*)" with country (\d+)$`, steps.registerIdentityAsCurrent)
	ctx.Step(`^I move "([^"]*)" to country (\d+)$`, steps.updateCountry)

	// Ledger operations
	ctx.Step(`^I mint (\d+) to "([^"]*)"$`, steps.mint)
	ctx.Step(`^I burn (\d+) from "([^"]*)"$`, steps.burn)
	ctx.Step(`^I transfer (\d+) to "([^"]*)"$`, steps.transfer)
	ctx.Step(`^I force a transfer of (\d+) from "([^"]*)" to "([^"]*)"$`, steps.forcedTransfer)
	ctx.Step(`^I recover the wallet of "([^"]*)" to "([^"]*)"$`, steps.recoverWallet)

	ctx.Step(`^I read the balance of "([^"]*)"$`, steps.readBalance)

	// Assertions
	ctx.Step(`^the balance of "([^"]*)" should be (\d+)$`, steps.balanceShouldBe)
}

type ledgerSteps struct {
	tc TestContext
}

// registerIdentity registers alias as the agent. Each wallet uses its own
// address as identity reference.
func (s *ledgerSteps) registerIdentity(ctx context.Context, alias string, country int) error {
	if err := s.tc.UseTokenFor("agent", "agent"); err != nil {
		return err
	}
	if err := s.registerIdentityAsCurrent(ctx, alias, country); err != nil {
		return err
	}
	return s.expect(201)
}

func (s *ledgerSteps) registerIdentityAsCurrent(ctx context.Context, alias string, country int) error {
	wallet := s.tc.Wallet(alias)
	return s.tc.POST("/v1/identities", map[string]any{
		"wallet":   wallet,
		"identity": wallet,
		"country":  country,
	})
}

func (s *ledgerSteps) updateCountry(ctx context.Context, alias string, country int) error {
	return s.tc.PUT("/v1/identities/"+s.tc.Wallet(alias)+"/country", map[string]any{"country": country})
}

func (s *ledgerSteps) mint(ctx context.Context, amount int, alias string) error {
	return s.tc.POST("/v1/mint", map[string]string{
		"to":     s.tc.Wallet(alias),
		"amount": fmt.Sprint(amount),
	})
}

func (s *ledgerSteps) burn(ctx context.Context, amount int, alias string) error {
	return s.tc.POST("/v1/burn", map[string]string{
		"from":   s.tc.Wallet(alias),
		"amount": fmt.Sprint(amount),
	})
}

func (s *ledgerSteps) transfer(ctx context.Context, amount int, alias string) error {
	return s.tc.POST("/v1/transfers", map[string]string{
		"to":     s.tc.Wallet(alias),
		"amount": fmt.Sprint(amount),
	})
}

func (s *ledgerSteps) forcedTransfer(ctx context.Context, amount int, from, to string) error {
	return s.tc.POST("/v1/forced-transfers", map[string]string{
		"from":   s.tc.Wallet(from),
		"to":     s.tc.Wallet(to),
		"amount": fmt.Sprint(amount),
	})
}

func (s *ledgerSteps) recoverWallet(ctx context.Context, lost, replacement string) error {
	return s.tc.POST("/v1/recovery/wallet", map[string]string{
		"lost_wallet": s.tc.Wallet(lost),
		"new_wallet":  s.tc.Wallet(replacement),
		"identity":    s.tc.Wallet(lost),
	})
}

func (s *ledgerSteps) readBalance(ctx context.Context, alias string) error {
	return s.tc.GET("/v1/balances/" + s.tc.Wallet(alias))
}

func (s *ledgerSteps) balanceShouldBe(ctx context.Context, alias string, expected int) error {
	if err := s.tc.GET("/v1/balances/" + s.tc.Wallet(alias)); err != nil {
		return err
	}
	if err := s.expect(200); err != nil {
		return err
	}
	balance, err := s.tc.GetResponseField("balance")
	if err != nil {
		return err
	}
	if got := fmt.Sprint(balance); got != fmt.Sprint(expected) {
		return fmt.Errorf("expected balance of %s to be %d, got %s", alias, expected, got)
	}
	return nil
}

func (s *ledgerSteps) expect(status int) error {
	if got := s.tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, got, s.tc.GetLastResponseBody())
	}
	return nil
}
