package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// ErrUnknownService is returned for a resource/version pair the locator
// cannot build.
var ErrUnknownService = errors.New("unknown google api service")

// Resource identifies a Google API by name and version.
type Resource struct {
	Name    string
	Version string
}

// String returns the resource in name/version form.
func (r Resource) String() string {
	return r.Name + "/" + r.Version
}

// Supported resources.
var (
	DriveV3  = Resource{Name: "drive", Version: "v3"}
	SheetsV4 = Resource{Name: "sheets", Version: "v4"}
)

// Locator binds credentials to Google API service clients.
// The zero value is ready to use and talks to the production endpoints.
type Locator struct {
	endpoint   string
	httpClient *http.Client
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithEndpoint points every service at a different base URL.
func WithEndpoint(endpoint string) LocatorOption {
	return func(l *Locator) {
		l.endpoint = endpoint
	}
}

// WithHTTPClient makes the locator use an already authenticated HTTP client
// instead of building one from credentials.
func WithHTTPClient(client *http.Client) LocatorOption {
	return func(l *Locator) {
		l.httpClient = client
	}
}

// NewLocator creates a new Locator.
func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequiresCredentials reports whether services can only be built from
// resolved credentials.
func (l *Locator) RequiresCredentials() bool {
	return l == nil || l.httpClient == nil
}

func (l *Locator) clientOptions(ctx context.Context, creds *Credentials) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	switch {
	case l != nil && l.httpClient != nil:
		opts = append(opts, option.WithHTTPClient(l.httpClient))
	case creds != nil:
		opts = append(opts, option.WithHTTPClient(creds.HTTPClient(ctx)))
	default:
		return nil, ErrNoCredentials
	}

	if l != nil && l.endpoint != "" {
		opts = append(opts, option.WithEndpoint(l.endpoint))
	}

	return opts, nil
}

// Locate builds the service client for a resource. The result is a
// *drive.Service or a *sheets.Service.
func (l *Locator) Locate(ctx context.Context, creds *Credentials, r Resource) (any, error) {
	opts, err := l.clientOptions(ctx, creds)
	if err != nil {
		return nil, err
	}

	switch r {
	case DriveV3:
		svc, err := drive.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create drive service: %w", err)
		}
		return svc, nil
	case SheetsV4:
		svc, err := sheets.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, r)
	}
}

// Drive returns a Drive v3 service bound to the credentials.
func (l *Locator) Drive(ctx context.Context, creds *Credentials) (*drive.Service, error) {
	svc, err := l.Locate(ctx, creds, DriveV3)
	if err != nil {
		return nil, err
	}
	return svc.(*drive.Service), nil
}

// Sheets returns a Sheets v4 service bound to the credentials.
func (l *Locator) Sheets(ctx context.Context, creds *Credentials) (*sheets.Service, error) {
	svc, err := l.Locate(ctx, creds, SheetsV4)
	if err != nil {
		return nil, err
	}
	return svc.(*sheets.Service), nil
}
