package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment selects the OANDA practice or live endpoints.
const (
	EnvPractice = "practice"
	EnvLive     = "live"
)

// Credentials holds the OANDA API credentials and target environment, read
// from the process environment.
type Credentials struct {
	APIKey      string
	AccountID   string
	Environment string
}

// CredentialsFromEnv reads OANDA_API_KEY, OANDA_ACCOUNT_ID and
// OANDA_ENVIRONMENT. A .env file in the working directory is loaded first
// when present; real environment variables win over .env entries.
func CredentialsFromEnv() (Credentials, error) {
	// Missing .env is fine; the variables may be set directly.
	_ = godotenv.Load()

	c := Credentials{
		APIKey:      os.Getenv("OANDA_API_KEY"),
		AccountID:   os.Getenv("OANDA_ACCOUNT_ID"),
		Environment: os.Getenv("OANDA_ENVIRONMENT"),
	}
	if c.Environment == "" {
		c.Environment = EnvPractice
	}
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))

	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate checks that the credentials are usable.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OANDA_API_KEY not found in environment variables")
	}
	if c.AccountID == "" {
		return fmt.Errorf("OANDA_ACCOUNT_ID not found in environment variables")
	}
	if c.Environment != EnvPractice && c.Environment != EnvLive {
		return fmt.Errorf("OANDA_ENVIRONMENT must be %q or %q, got %q", EnvPractice, EnvLive, c.Environment)
	}
	return nil
}

// Practice reports whether the practice environment is targeted.
func (c Credentials) Practice() bool {
	return c.Environment != EnvLive
}
