package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Reset()
	UseTokenFor(alias, role string) error
	SetToken(token string)
	CurrentTokenID() (string, error)
	GET(path string) error
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers background, auth and assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.Reset()
		return ctx, nil
	})

	ctx.Step(`^the ledger is running$`, steps.ledgerIsRunning)
	ctx.Step(`^I am the agent$`, steps.actAsAgent)
	ctx.Step(`^I am "([^"]*)"$`, steps.actAsHolder)
	ctx.Step(`^I use the token "([^"]*)"$`, steps.useRawToken)
	ctx.Step(`^the agent revokes the token of "([^"]*)"$`, steps.revokeTokenOf)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, steps.errorShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) ledgerIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	return s.statusShouldBe(ctx, 200)
}

func (s *commonSteps) actAsAgent(ctx context.Context) error {
	return s.tc.UseTokenFor("agent", "agent")
}

func (s *commonSteps) actAsHolder(ctx context.Context, alias string) error {
	return s.tc.UseTokenFor(alias, "holder")
}

func (s *commonSteps) useRawToken(ctx context.Context, token string) error {
	s.tc.SetToken(token)
	return nil
}

// revokeTokenOf revokes the holder token of alias as the agent and leaves
// that holder token in use.
func (s *commonSteps) revokeTokenOf(ctx context.Context, alias string) error {
	if err := s.tc.UseTokenFor(alias, "holder"); err != nil {
		return err
	}
	jti, err := s.tc.CurrentTokenID()
	if err != nil {
		return err
	}
	if err := s.tc.UseTokenFor("agent", "agent"); err != nil {
		return err
	}
	if err := s.tc.POST("/v1/tokens/revocations", map[string]any{"jti": jti, "expires_in_seconds": 3600}); err != nil {
		return err
	}
	if err := s.statusShouldBe(ctx, 204); err != nil {
		return err
	}
	return s.tc.UseTokenFor(alias, "holder")
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldBe(ctx, "error", code)
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}
