package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Wallet(alias string) string
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I read the balance of "([^"]*)" (\d+) times$`, steps.readBalanceNTimes)
	ctx.Step(`^at least one read should have been rate limited$`, steps.someReadRateLimited)
}

type ratelimitSteps struct {
	tc      TestContext
	limited int
}

// readBalanceNTimes records how many of n reads were rejected with 429.
func (s *ratelimitSteps) readBalanceNTimes(ctx context.Context, alias string, n int) error {
	s.limited = 0
	for range n {
		if err := s.tc.GET("/v1/balances/" + s.tc.Wallet(alias)); err != nil {
			return err
		}
		switch status := s.tc.GetLastResponseStatus(); status {
		case 200:
		case 429:
			s.limited++
		default:
			return fmt.Errorf("unexpected status %d: %s", status, s.tc.GetLastResponseBody())
		}
	}
	return nil
}

func (s *ratelimitSteps) someReadRateLimited(ctx context.Context) error {
	if s.limited == 0 {
		return fmt.Errorf("no read was rate limited; raise the request count or lower RATE_LIMIT_READ")
	}
	return nil
}
