package httptransport

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tokenguard/internal/compliance"
	"tokenguard/internal/transport/http/mocks"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

type ComplianceHandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	registry *mocks.MockComplianceRegistry
	router   http.Handler
	ref      domain.Address
}

func TestComplianceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ComplianceHandlerSuite))
}

func (s *ComplianceHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockComplianceRegistry(s.ctrl)
	s.router = newTestRouter(NewComplianceHandler(s.registry, discard), agent)
	s.ref = domain.BytesToAddress([]byte{0x5a})
}

func (s *ComplianceHandlerSuite) TestList() {
	s.registry.EXPECT().ListModules().Return([]compliance.ModuleEntry{
		{Ref: s.ref, Params: []byte(`{"limit":"1000"}`)},
		{Ref: domain.BytesToAddress([]byte{0x5b}), Params: []byte("raw")},
		{Ref: domain.BytesToAddress([]byte{0x5c})},
	})

	status, body := do(s.T(), s.router, http.MethodGet, "/compliance/modules", nil)
	s.Equal(http.StatusOK, status)
	modules := body["modules"].([]any)
	s.Require().Len(modules, 3)
	s.Equal(map[string]any{"limit": "1000"}, modules[0].(map[string]any)["params"])
	s.Equal("raw", modules[1].(map[string]any)["params"])
	s.Nil(modules[2].(map[string]any)["params"])
}

func (s *ComplianceHandlerSuite) TestAdd() {
	s.Run("params are passed verbatim", func() {
		s.registry.EXPECT().AddModule(gomock.Any(), s.ref, []byte(`{"limit":"1000"}`)).Return(nil)
		status, _ := do(s.T(), s.router, http.MethodPost, "/compliance/modules", map[string]any{
			"ref": s.ref.String(), "params": json.RawMessage(`{"limit":"1000"}`),
		})
		s.Equal(http.StatusCreated, status)
	})

	s.Run("duplicate", func() {
		s.registry.EXPECT().AddModule(gomock.Any(), s.ref, gomock.Any()).
			Return(dErrors.New(dErrors.CodeModuleAlreadyAdded, "module already added"))
		status, body := do(s.T(), s.router, http.MethodPost, "/compliance/modules", map[string]any{"ref": s.ref.String()})
		s.Equal(http.StatusConflict, status)
		s.Equal("module_already_added", body["error"])
	})

	s.Run("batch", func() {
		other := domain.BytesToAddress([]byte{0x5b})
		s.registry.EXPECT().AddModules(gomock.Any(), []compliance.ModuleEntry{
			{Ref: s.ref, Params: []byte(`{"max":"5"}`)},
			{Ref: other},
		}).Return(nil)
		status, body := do(s.T(), s.router, http.MethodPost, "/compliance/modules/batch", map[string]any{
			"modules": []map[string]any{
				{"ref": s.ref.String(), "params": json.RawMessage(`{"max":"5"}`)},
				{"ref": other.String()},
			},
		})
		s.Equal(http.StatusCreated, status)
		s.Equal(float64(2), body["count"])
	})
}

func (s *ComplianceHandlerSuite) TestSetParamsAndRemove() {
	s.registry.EXPECT().SetModuleParameters(gomock.Any(), s.ref, []byte(`{"max":"9"}`)).Return(nil)
	status, _ := do(s.T(), s.router, http.MethodPut, "/compliance/modules/"+s.ref.String(), map[string]any{
		"params": json.RawMessage(`{"max":"9"}`),
	})
	s.Equal(http.StatusOK, status)

	s.registry.EXPECT().RemoveModule(gomock.Any(), s.ref).
		Return(dErrors.New(dErrors.CodeModuleNotFound, "module not bound"))
	status, body := do(s.T(), s.router, http.MethodDelete, "/compliance/modules/"+s.ref.String(), nil)
	s.Equal(http.StatusNotFound, status)
	s.Equal("module_not_found", body["error"])

	s.registry.EXPECT().RemoveModule(gomock.Any(), s.ref).Return(nil)
	status, _ = do(s.T(), s.router, http.MethodDelete, "/compliance/modules/"+s.ref.String(), nil)
	s.Equal(http.StatusNoContent, status)
}

func (s *ComplianceHandlerSuite) TestGet() {
	s.registry.EXPECT().ModuleParameters(s.ref).Return([]byte(`{"max":"9"}`), nil)
	status, body := do(s.T(), s.router, http.MethodGet, "/compliance/modules/"+s.ref.String(), nil)
	s.Equal(http.StatusOK, status)
	s.Equal(s.ref.String(), body["ref"])
}
