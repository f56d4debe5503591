package documents

import (
	"context"
	"log/slog"
	"sync"
	"time"

	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gdocs/internal/google"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/logging"
)

// Binding carries what an entity needs to reach the remote APIs: the
// credential source, the service locator, a logger and a metrics recorder.
// Services are built on first use and reused for the binding's lifetime.
// A Binding is safe for concurrent use.
type Binding struct {
	source  google.CredentialSource
	locator *google.Locator
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	mu     sync.Mutex
	creds  *google.Credentials
	drive  *drive.Service
	sheets *sheets.Service
}

// Option configures a Binding.
type Option func(*Binding)

// WithCredentialSource sets where service-account credentials are resolved from.
func WithCredentialSource(source google.CredentialSource) Option {
	return func(b *Binding) {
		b.source = source
	}
}

// WithCredentialsFile sets the configured service-account key file. It ranks
// below a Using override and above the environment variable.
func WithCredentialsFile(path string) Option {
	return func(b *Binding) {
		b.source.File = path
	}
}

// WithLocator sets the service locator.
func WithLocator(locator *google.Locator) Option {
	return func(b *Binding) {
		b.locator = locator
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(b *Binding) {
		b.metrics = metrics
	}
}

// NewBinding creates a Binding. Nothing is resolved until the first remote call.
func NewBinding(opts ...Option) *Binding {
	b := &Binding{
		locator: google.NewLocator(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.Discard()
	}
	if b.locator == nil {
		b.locator = google.NewLocator()
	}
	return b
}

// withOverride returns a fresh binding sharing everything but the
// credential override and the cached services.
func (b *Binding) withOverride(path string) *Binding {
	return &Binding{
		source:  b.source.WithOverride(path),
		locator: b.locator,
		logger:  b.logger,
		metrics: b.metrics,
	}
}

// Source returns the binding's credential source.
func (b *Binding) Source() google.CredentialSource {
	return b.source
}

// CheckCredentials reports whether a usable key file can be resolved,
// without reading it.
func (b *Binding) CheckCredentials() error {
	if b == nil {
		return ErrUnbound
	}
	if !b.locator.RequiresCredentials() {
		return nil
	}

	path, err := b.source.Resolve()
	if err != nil {
		return err
	}
	return google.ValidateCredentialsPath(path)
}

// credentials resolves and loads the key file once. Callers hold b.mu.
func (b *Binding) credentials() (*google.Credentials, error) {
	if !b.locator.RequiresCredentials() {
		return nil, nil
	}
	if b.creds != nil {
		return b.creds, nil
	}

	path, err := b.source.Resolve()
	if err != nil {
		return nil, err
	}

	creds, err := google.LoadCredentials(path, google.DefaultScopes...)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("loaded service account credentials", logging.Credentials(path))

	b.creds = creds
	return creds, nil
}

func (b *Binding) driveService(ctx context.Context) (*drive.Service, error) {
	if b == nil {
		return nil, ErrUnbound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drive != nil {
		return b.drive, nil
	}

	creds, err := b.credentials()
	if err != nil {
		return nil, err
	}

	svc, err := b.locator.Drive(ctx, creds)
	if err != nil {
		return nil, err
	}

	b.drive = svc
	return svc, nil
}

func (b *Binding) sheetsService(ctx context.Context) (*sheets.Service, error) {
	if b == nil {
		return nil, ErrUnbound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sheets != nil {
		return b.sheets, nil
	}

	creds, err := b.credentials()
	if err != nil {
		return nil, err
	}

	svc, err := b.locator.Sheets(ctx, creds)
	if err != nil {
		return nil, err
	}

	b.sheets = svc
	return svc, nil
}

// call runs one remote call inside a client span and records its outcome.
func (b *Binding) call(ctx context.Context, c instrumentation.Call, resource slog.Attr, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartCall(ctx, c)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	instrumentation.Finish(span, err)
	b.metrics.ObserveCall(ctx, c, err, duration)

	b.logger.LogAttrs(ctx, slog.LevelDebug, "google api call",
		logging.Service(c.Service),
		logging.Operation(c.Operation),
		resource,
		logging.Outcome(err),
		logging.Duration(duration),
		logging.Err(err),
	)

	return err
}

// driveCall runs fn against the Drive service.
func (b *Binding) driveCall(ctx context.Context, operation, fileID string, fn func(context.Context, *drive.Service) error) error {
	svc, err := b.driveService(ctx)
	if err != nil {
		return err
	}

	c := instrumentation.Call{Service: instrumentation.ServiceDrive, Operation: operation, FileID: fileID}
	return b.call(ctx, c, logging.FileID(fileID), func(ctx context.Context) error {
		return fn(ctx, svc)
	})
}

// sheetsCall runs fn against the Sheets service.
func (b *Binding) sheetsCall(ctx context.Context, operation, spreadsheetID string, ranges []string, fn func(context.Context, *sheets.Service) error) error {
	svc, err := b.sheetsService(ctx)
	if err != nil {
		return err
	}

	c := instrumentation.Call{
		Service:       instrumentation.ServiceSheets,
		Operation:     operation,
		SpreadsheetID: spreadsheetID,
		Ranges:        ranges,
	}
	return b.call(ctx, c, logging.SpreadsheetID(spreadsheetID), func(ctx context.Context) error {
		return fn(ctx, svc)
	})
}

func (b *Binding) recordCacheLookup(ctx context.Context, hit bool) {
	if b == nil {
		return
	}
	b.metrics.ObserveSheetCache(ctx, hit)
}

func (b *Binding) recordExport(ctx context.Context, mimeType string, n int64) {
	if b == nil {
		return
	}
	b.metrics.ObserveExport(ctx, mimeType, n)
}
