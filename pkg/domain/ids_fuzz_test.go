package domain

import (
	"strings"
	"testing"
)

// FuzzParseAddress checks that parsing never panics and that every accepted
// input round-trips to its lower-case form.
func FuzzParseAddress(f *testing.F) {
	f.Add("")
	f.Add("0x0000000000000000000000000000000000000000")
	f.Add("0xAbCdEf0123456789abcdef0123456789ABCDEF01")
	f.Add("0x'; DROP TABLE identities;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		a, err := ParseAddress(input)
		if err != nil {
			if !a.IsZero() {
				t.Fatalf("error path returned non-zero address %s", a)
			}
			return
		}
		if got, want := a.String(), "0x"+strings.ToLower(input[2:]); got != want {
			t.Fatalf("round trip mismatch: got %s want %s", got, want)
		}
	})
}
