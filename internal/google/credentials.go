package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// EnvServiceAccountFile names the environment variable holding the path of
// the default service-account key file.
const EnvServiceAccountFile = "GOOGLE_DOCUMENT_SERVICE_JSON"

var (
	// ErrNoCredentials is returned when neither an override, a configured
	// file nor the environment variable names a service-account key file.
	ErrNoCredentials = errors.New("service account file not found: specify it explicitly or in $" + EnvServiceAccountFile)

	// ErrCredentialsFile is returned when a credential path does not point
	// to a regular file.
	ErrCredentialsFile = errors.New("invalid service account file")
)

// CredentialSource describes where a service-account key file comes from.
// Resolution order is Override, then File, then the environment variable.
type CredentialSource struct {
	// Override is an explicit path set for a single manager or invocation.
	Override string

	// File is the path configured in the config file.
	File string

	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// WithOverride returns a copy of the source with the override path set.
func (s CredentialSource) WithOverride(path string) CredentialSource {
	s.Override = path
	return s
}

// Resolve returns the path of the key file to use.
func (s CredentialSource) Resolve() (string, error) {
	if s.Override != "" {
		return s.Override, nil
	}
	if s.File != "" {
		return s.File, nil
	}

	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if path := getenv(EnvServiceAccountFile); path != "" {
		return path, nil
	}

	return "", ErrNoCredentials
}

// ValidateCredentialsPath checks that path exists and is a regular file.
func ValidateCredentialsPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrCredentialsFile)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCredentialsFile, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a file", ErrCredentialsFile, path)
	}

	return nil
}

// Credentials is a resolved service-account credential.
type Credentials struct {
	path   string
	config *jwt.Config
}

// LoadCredentials reads a service-account key file and prepares a JWT
// config for the given scopes. DefaultScopes are used when none are given.
func LoadCredentials(path string, scopes ...string) (*Credentials, error) {
	if err := ValidateCredentialsPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	return ParseCredentials(path, data, scopes...)
}

// ParseCredentials builds credentials from the JSON content of a key file.
// The path is kept for diagnostics only.
func ParseCredentials(path string, data []byte, scopes ...string) (*Credentials, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	config, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account file %s: %w", path, err)
	}

	return &Credentials{path: path, config: config}, nil
}

// Path returns the key file the credentials were loaded from.
func (c *Credentials) Path() string {
	return c.path
}

// Email returns the service account's email address.
func (c *Credentials) Email() string {
	return c.config.Email
}

// Scopes returns the OAuth scopes the credentials request.
func (c *Credentials) Scopes() []string {
	return c.config.Scopes
}

// HTTPClient returns an HTTP client that authenticates as the service account.
func (c *Credentials) HTTPClient(ctx context.Context) *http.Client {
	return c.config.Client(ctx)
}
