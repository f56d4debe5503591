package documents

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gdocs/internal/google"
	"github.com/teemow/gdocs/internal/instrumentation"
)

// Manager looks up and lists entities of one kind. Entities it returns
// share its Binding.
type Manager struct {
	kind    Kind
	binding *Binding
}

// NewManager creates a manager for kind.
func NewManager(kind Kind, opts ...Option) *Manager {
	return &Manager{kind: kind, binding: NewBinding(opts...)}
}

// Manager returns a manager for kind sharing b.
func (b *Binding) Manager(kind Kind) *Manager {
	return &Manager{kind: kind, binding: b}
}

// Files returns a manager for any Drive item.
func (b *Binding) Files() *Manager { return b.Manager(KindFile) }

// Folders returns a manager for folders.
func (b *Binding) Folders() *Manager { return b.Manager(KindFolder) }

// Documents returns a manager for documents.
func (b *Binding) Documents() *Manager { return b.Manager(KindDocument) }

// Spreadsheets returns a manager for spreadsheets.
func (b *Binding) Spreadsheets() *SpreadsheetManager {
	return &SpreadsheetManager{Manager: b.Manager(KindSpreadsheet)}
}

// Kind returns the kind of entities the manager handles.
func (m *Manager) Kind() Kind { return m.kind }

// Binding returns the manager's binding.
func (m *Manager) Binding() *Binding { return m.binding }

// Using returns a copy of the manager reading credentials from the
// service-account key file at path. The receiver is unchanged.
func (m *Manager) Using(path string) (*Manager, error) {
	if err := google.ValidateCredentialsPath(path); err != nil {
		return nil, err
	}
	return &Manager{kind: m.kind, binding: m.binding.withOverride(path)}, nil
}

// Ref returns an entity for id bound to the manager without fetching it.
// Name and mime type stay unknown until Refresh.
func (m *Manager) Ref(id string) Entity {
	return ref(m.kind, id, m.binding)
}

// Get fetches the item with id. It returns nil and no error when the item
// does not exist.
func (m *Manager) Get(ctx context.Context, id string) (Entity, error) {
	var item *drive.File
	err := m.binding.driveCall(ctx, instrumentation.OperationGet, id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		item, err = svc.Files.Get(id).Fields(fileFields).Context(ctx).Do()
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", m.kind, id, err)
	}
	return m.build(item), nil
}

// Filter lists every item matching criteria. Zero matches give an empty
// slice, not an error.
func (m *Manager) Filter(ctx context.Context, criteria Criteria) ([]Entity, error) {
	q, err := BuildQuery(m.kind, criteria)
	if err != nil {
		return nil, err
	}

	entities, err := listFiles(ctx, m.binding, q, m.build)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", m.kind, err)
	}
	return entities, nil
}

// All lists every item of the manager's kind.
func (m *Manager) All(ctx context.Context) ([]Entity, error) {
	return m.Filter(ctx, nil)
}

// build dispatches on the mime type for the file manager and constructs
// the manager's own kind otherwise.
func (m *Manager) build(item *drive.File) Entity {
	if m.kind == KindFile {
		return FromItem(item, m.binding)
	}
	return newEntity(m.kind, item, m.binding)
}

// SpreadsheetManager is the spreadsheet Manager with typed helpers and
// creation.
type SpreadsheetManager struct {
	*Manager
}

// NewSpreadsheetManager creates a spreadsheet manager.
func NewSpreadsheetManager(opts ...Option) *SpreadsheetManager {
	return &SpreadsheetManager{Manager: NewManager(KindSpreadsheet, opts...)}
}

// Using returns a copy of the manager reading credentials from path.
func (m *SpreadsheetManager) Using(path string) (*SpreadsheetManager, error) {
	inner, err := m.Manager.Using(path)
	if err != nil {
		return nil, err
	}
	return &SpreadsheetManager{Manager: inner}, nil
}

// Spreadsheet returns a spreadsheet for id without fetching it.
func (m *SpreadsheetManager) Spreadsheet(id string) *Spreadsheet {
	return m.Ref(id).(*Spreadsheet)
}

// GetSpreadsheet is Get returning a *Spreadsheet.
func (m *SpreadsheetManager) GetSpreadsheet(ctx context.Context, id string) (*Spreadsheet, error) {
	e, err := m.Get(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	return e.(*Spreadsheet), nil
}

// Create makes a new spreadsheet titled title.
func (m *SpreadsheetManager) Create(ctx context.Context, title string) (*Spreadsheet, error) {
	body := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: title}}

	var created *sheets.Spreadsheet
	err := m.binding.sheetsCall(ctx, instrumentation.OperationCreate, "", nil, func(ctx context.Context, svc *sheets.Service) error {
		var err error
		created, err = svc.Spreadsheets.Create(body).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet %q: %w", title, err)
	}
	return FromSpreadsheet(created, m.binding), nil
}
