package e2e

import (
	"github.com/cucumber/godog"

	"tokenguard/e2e/steps/common"
	"tokenguard/e2e/steps/compliance"
	"tokenguard/e2e/steps/ledger"
	"tokenguard/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background, authentication and generic assertions
	common.RegisterSteps(ctx, tc)

	// Identity registration and ledger operations
	ledger.RegisterSteps(ctx, tc)

	// Compliance module binding
	compliance.RegisterSteps(ctx, tc)

	// Request budgets
	ratelimit.RegisterSteps(ctx, tc)
}
