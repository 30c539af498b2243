// Command issuetoken mints actor tokens accepted by the order engine's staff endpoints.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/polkiloo/orderengine/internal/pkg/auth"
)

func main() {
	if err := run(os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "issuetoken: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, lookup func(string) (string, bool), out io.Writer) error {
	flags := flag.NewFlagSet("issuetoken", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		actor   = flags.Int64("actor", 0, "Actor id recorded in status history and inventory log")
		role    = flags.String("role", string(auth.RoleStaff), "Actor role (staff or admin)")
		ttl     = flags.Duration("ttl", 12*time.Hour, "Token lifetime")
		secret  = flags.String("secret", "", "Signing secret, defaults to AUTH_SECRET")
		envFile = flags.String("env-file", ".env", "Optional .env file consulted for AUTH_SECRET")
	)
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *actor <= 0 {
		return errors.New("actor must be positive")
	}

	key := *secret
	if key == "" {
		var err error
		if key, err = lookupSecret(lookup, *envFile); err != nil {
			return err
		}
	}
	if key == "" {
		return errors.New("signing secret is not configured")
	}

	token, err := auth.NewHMACStrategy(key, auth.Options{TTL: *ttl}).IssueToken(*actor, auth.Role(*role))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func lookupSecret(lookup func(string) (string, bool), envFile string) (string, error) {
	if v, ok := lookup("AUTH_SECRET"); ok && v != "" {
		return v, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read env file: %w", err)
	}
	return values["AUTH_SECRET"], nil
}
