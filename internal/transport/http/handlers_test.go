package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tokenguard/internal/platform/middleware"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/testutil"
)

var (
	agent   = domain.BytesToAddress([]byte{0xaa})
	alice   = domain.BytesToAddress([]byte{0x01})
	bob     = domain.BytesToAddress([]byte{0x02})
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// registrar is implemented by every handler in this package.
type registrar interface {
	Register(r chi.Router)
	RegisterAgent(r chi.Router)
}

// newTestRouter mounts h behind a stand-in for RequireAuth that makes caller
// the authenticated agent.
func newTestRouter(h registrar, caller domain.Address) chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, testutil.WithCaller(req, caller, middleware.RoleAgent))
		})
	})
	h.Register(r)
	h.RegisterAgent(r)
	return r
}

func do(t *testing.T, router http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

type decimalMatcher struct{ want decimal.Decimal }

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string { return "equals " + m.want.String() }

func amount(v int64) gomock.Matcher { return decimalMatcher{want: decimal.NewFromInt(v)} }

type decimalsMatcher struct{ want []int64 }

func (m decimalsMatcher) Matches(x any) bool {
	ds, ok := x.([]decimal.Decimal)
	if !ok || len(ds) != len(m.want) {
		return false
	}
	for i, d := range ds {
		if !d.Equal(decimal.NewFromInt(m.want[i])) {
			return false
		}
	}
	return true
}

func (m decimalsMatcher) String() string { return fmt.Sprintf("equals %v", m.want) }

func amounts(v ...int64) gomock.Matcher { return decimalsMatcher{want: v} }
