// Package main provides a CLI for issuing bearer tokens against the signing
// key the server is configured with. Operators use it to bootstrap the first
// agent token of a deployment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "tokenguard/internal/jwt_token"
	"tokenguard/internal/platform/config"
	"tokenguard/internal/platform/middleware"
	"tokenguard/pkg/domain"
)

func main() {
	var wallet, role string
	var ttl time.Duration

	flag.StringVar(&wallet, "wallet", "", "wallet the token acts as (0x-hex)")
	flag.StringVar(&role, "role", middleware.RoleHolder, "token role (agent, holder)")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	token, err := issue(wallet, role, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(wallet, role string, ttl time.Duration) (string, error) {
	if role != middleware.RoleAgent && role != middleware.RoleHolder {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	addr, err := domain.ParseAddress(wallet)
	if err != nil {
		return "", fmt.Errorf("wallet: %w", err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return "", err
	}
	return jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, jwttoken.APIAudience).GenerateAccessToken(addr, role, ttl)
}
