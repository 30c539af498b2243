package test

import (
	pkgAuth "github.com/polkiloo/orderengine/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64, pkgAuth.Role) (string, error)
	ParseFn func(string) (pkgAuth.Claims, error)
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(actorID int64, role pkgAuth.Role) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(actorID, role)
	}
	return "token", nil
}

// ParseToken returns a staff actor unless overridden.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Claims{ActorID: 1, Role: pkgAuth.RoleStaff}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string { return "stub" }

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Claims pkgAuth.Claims
	Err    error
}

// ParseToken returns predefined result.
func (s TokenParserStub) ParseToken(string) (pkgAuth.Claims, error) {
	if s.Err != nil {
		return pkgAuth.Claims{}, s.Err
	}
	return s.Claims, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
