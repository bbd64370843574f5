package compliance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// Bundled module references published by the server at startup.
var moduleRefs = map[string]string{
	"supply limit":     "0x00000000000000000000000000000000000000c1",
	"max balance":      "0x00000000000000000000000000000000000000c2",
	"country restrict": "0x00000000000000000000000000000000000000c3",
}

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	UseTokenFor(alias, role string) error
	POST(path string, body any) error
	DELETE(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers compliance module step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &complianceSteps{tc: tc}

	ctx.Step(`^the "([^"]*)" module is bound with parameters '([^']*)'$`, steps.bindModule)
	ctx.Step(`^I bind the "([^"]*)" module with parameters '([^']*)'$`, steps.bindModuleAsCurrent)
	ctx.Step(`^I unbind the "([^"]*)" module$`, steps.unbindModule)
}

type complianceSteps struct {
	tc TestContext
}

func (s *complianceSteps) ref(name string) (string, error) {
	ref, ok := moduleRefs[name]
	if !ok {
		return "", fmt.Errorf("unknown module %q", name)
	}
	return ref, nil
}

// bindModule binds as the agent and expects success.
func (s *complianceSteps) bindModule(ctx context.Context, name, params string) error {
	if err := s.tc.UseTokenFor("agent", "agent"); err != nil {
		return err
	}
	if err := s.bindModuleAsCurrent(ctx, name, params); err != nil {
		return err
	}
	if got := s.tc.GetLastResponseStatus(); got != 201 {
		return fmt.Errorf("binding %s: status %d: %s", name, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *complianceSteps) bindModuleAsCurrent(ctx context.Context, name, params string) error {
	ref, err := s.ref(name)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(params)) {
		return fmt.Errorf("parameters for %s are not JSON: %s", name, params)
	}
	return s.tc.POST("/v1/compliance/modules", map[string]any{
		"ref":    ref,
		"params": json.RawMessage(params),
	})
}

func (s *complianceSteps) unbindModule(ctx context.Context, name string) error {
	ref, err := s.ref(name)
	if err != nil {
		return err
	}
	return s.tc.DELETE("/v1/compliance/modules/" + ref)
}
