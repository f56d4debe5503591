package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/logging"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	binding          *documents.Binding
	logger           *slog.Logger
	valueInputOption documents.ValueInputOption
	exportMimeType   string

	// credentialsDir confines per-call key files when set.
	credentialsDir       string
	credentialsArgDenied bool

	mu          sync.RWMutex
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		sc.logger = logger
	}
}

// WithMetrics sets the metrics recorder used by tool handlers.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = metrics
	}
}

// WithAuditLogger sets the audit logger used by tool handlers.
func WithAuditLogger(auditLogger *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.auditLogger = auditLogger
	}
}

// WithValueInputOption sets the default option for sheet writes.
func WithValueInputOption(opt documents.ValueInputOption) Option {
	return func(sc *ServerContext) {
		sc.valueInputOption = opt
	}
}

// WithExportMimeType sets the default mime type for document exports.
func WithExportMimeType(mimeType string) Option {
	return func(sc *ServerContext) {
		sc.exportMimeType = mimeType
	}
}

// WithCredentialsDir confines the per-call credentials argument to key
// files inside dir. Arguments are then names relative to dir.
func WithCredentialsDir(dir string) Option {
	return func(sc *ServerContext) {
		sc.credentialsDir = dir
	}
}

// WithoutCredentialsArg rejects the per-call credentials argument unless a
// credentials directory is configured.
func WithoutCredentialsArg() Option {
	return func(sc *ServerContext) {
		sc.credentialsArgDenied = true
	}
}

// ErrCredentialsArgDenied is returned for a credentials argument the server
// does not accept.
var ErrCredentialsArgDenied = errors.New("credentials argument not allowed")

// NewServerContext creates a new server context around binding
func NewServerContext(ctx context.Context, binding *documents.Binding, opts ...Option) (*ServerContext, error) {
	if binding == nil {
		return nil, errors.New("binding is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:              shutdownCtx,
		cancel:           cancel,
		binding:          binding,
		logger:           logging.Discard(),
		valueInputOption: documents.DefaultValueInputOption,
		exportMimeType:   documents.DefaultExportMimeType,
	}
	for _, opt := range opts {
		opt(sc)
	}

	if err := sc.valueInputOption.Validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Binding returns the binding shared by all managers of the server
func (sc *ServerContext) Binding() *documents.Binding {
	return sc.binding
}

// Manager returns a manager for kind on the shared binding
func (sc *ServerContext) Manager(kind documents.Kind) *documents.Manager {
	return sc.binding.Manager(kind)
}

// Spreadsheets returns the spreadsheet manager on the shared binding
func (sc *ServerContext) Spreadsheets() *documents.SpreadsheetManager {
	return sc.binding.Spreadsheets()
}

// ResolveCredentials maps a per-call credentials argument to a key file
// path. With a credentials directory the argument must be a local path
// inside it.
func (sc *ServerContext) ResolveCredentials(arg string) (string, error) {
	if sc.credentialsDir != "" {
		if !filepath.IsLocal(arg) {
			return "", fmt.Errorf("%w: %q is outside the credentials directory", ErrCredentialsArgDenied, arg)
		}
		return filepath.Join(sc.credentialsDir, arg), nil
	}
	if sc.credentialsArgDenied {
		return "", fmt.Errorf("%w: server has no credentials directory", ErrCredentialsArgDenied)
	}
	return arg, nil
}

// ValueInputOption returns the default option for sheet writes
func (sc *ServerContext) ValueInputOption() documents.ValueInputOption {
	return sc.valueInputOption
}

// ExportMimeType returns the default mime type for document exports
func (sc *ServerContext) ExportMimeType() string {
	return sc.exportMimeType
}

// Metrics returns the metrics recorder, or nil
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// CheckCredentials reports whether the binding can resolve a key file
func (sc *ServerContext) CheckCredentials() error {
	return sc.binding.CheckCredentials()
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
