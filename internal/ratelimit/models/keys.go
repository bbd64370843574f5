package models

import "strings"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewCallerRateLimitKey keys a bucket by authenticated wallet.
func NewCallerRateLimitKey(wallet string, class EndpointClass) string {
	return "rl:caller:" + SanitizeKeySegment(wallet) + ":" + string(class)
}

// NewIPRateLimitKey keys a bucket by client address for anonymous callers.
func NewIPRateLimitKey(ip string, class EndpointClass) string {
	return "rl:ip:" + SanitizeKeySegment(ip) + ":" + string(class)
}
