package documents

import (
	"testing"

	"github.com/teemow/gdocs/internal/documents/documentstest"
	"github.com/teemow/gdocs/internal/logging"
)

// newTestBinding returns a fake API server and a binding talking to it.
func newTestBinding(t *testing.T) (*documentstest.Server, *Binding) {
	t.Helper()

	srv := documentstest.NewServer(t)
	return srv, NewBinding(
		WithLocator(srv.Locator()),
		WithLogger(logging.Discard()),
	)
}
