package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polkiloo/orderengine/internal/pkg/auth"
)

func envOf(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestRunIssuesParsableToken(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-actor", "7", "-role", "admin", "-env-file", "missing.env"}, envOf(map[string]string{"AUTH_SECRET": "s3cret"}), &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	claims, err := auth.NewHMACStrategy("s3cret", auth.Options{}).ParseToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ActorID != 7 || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRunReadsSecretFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("AUTH_SECRET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run([]string{"-actor", "3", "-env-file", path}, envOf(nil), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := auth.NewHMACStrategy("from-file", auth.Options{}).ParseToken(strings.TrimSpace(out.String())); err != nil {
		t.Fatalf("token not signed with file secret: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want error
	}{
		{name: "missing actor", args: []string{"-secret", "x"}},
		{name: "missing secret", args: []string{"-actor", "1", "-env-file", "missing.env"}},
		{name: "bad role", args: []string{"-actor", "1", "-secret", "x", "-role", "owner"}, want: auth.ErrInvalidRole},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, envOf(tt.env), &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
