package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const audience = "tokenguard-api"

// TestContext holds per-scenario state: the wallets scenarios talk about,
// the bearer token currently in use and the last response.
type TestContext struct {
	BaseURL    string
	SigningKey string
	Issuer     string
	HTTPClient *http.Client

	wallets      map[string]string
	tokens       map[string]string
	token        string
	lastStatus   int
	lastBody     []byte
	lastResponse map[string]any
}

// NewTestContext reads E2E_BASE_URL, E2E_JWT_SIGNING_KEY and E2E_JWT_ISSUER.
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    getenv("E2E_BASE_URL", "http://localhost:8080"),
		SigningKey: getenv("E2E_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:     getenv("E2E_JWT_ISSUER", "tokenguard"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Reset clears scenario state. Wallet addresses are derived from the
// scenario start time so reruns against one server do not collide.
func (tc *TestContext) Reset() {
	tc.wallets = make(map[string]string)
	tc.tokens = make(map[string]string)
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastResponse = nil
}

// Wallet returns the address assigned to a scenario alias such as "alice".
func (tc *TestContext) Wallet(alias string) string {
	if w, ok := tc.wallets[alias]; ok {
		return w
	}
	w := fmt.Sprintf("0x%040x", time.Now().UnixNano()+int64(len(tc.wallets)))
	tc.wallets[alias] = w
	return w
}

// UseTokenFor signs a token for the alias' wallet with role and makes it the
// token sent with subsequent requests.
func (tc *TestContext) UseTokenFor(alias, role string) error {
	key := alias + "/" + role
	if t, ok := tc.tokens[key]; ok {
		tc.token = t
		return nil
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  tc.Wallet(alias),
		"role": role,
		"iss":  tc.Issuer,
		"aud":  []string{audience},
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
		"jti":  fmt.Sprintf("e2e-%d", now.UnixNano()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tc.SigningKey))
	if err != nil {
		return err
	}
	tc.tokens[key] = signed
	tc.token = signed
	return nil
}

// SetToken overrides the bearer token, for example with a malformed one.
func (tc *TestContext) SetToken(token string) {
	tc.token = token
}

// CurrentTokenID returns the jti of the token in use.
func (tc *TestContext) CurrentTokenID() (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tc.token, jwt.MapClaims{})
	if err != nil {
		return "", err
	}
	claims := parsed.Claims.(jwt.MapClaims)
	jti, _ := claims["jti"].(string)
	return jti, nil
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, strings.TrimRight(tc.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastResponse = nil
	if len(tc.lastBody) > 0 {
		var parsed map[string]any
		if json.Unmarshal(tc.lastBody, &parsed) == nil {
			tc.lastResponse = parsed
		}
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastResponse == nil {
		return nil, fmt.Errorf("last response was not a JSON object: %s", tc.lastBody)
	}
	v, ok := tc.lastResponse[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}
