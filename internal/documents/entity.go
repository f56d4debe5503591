package documents

import (
	"context"
	"errors"
	"fmt"

	drive "google.golang.org/api/drive/v3"

	"github.com/teemow/gdocs/internal/instrumentation"
)

// fileFields are the Drive fields every entity is populated from.
const fileFields = "id, name, mimeType, parents"

// Entity is a Drive item: a *File, *Folder, *Document or *Spreadsheet.
type Entity interface {
	// ID returns the remote id. Equality of entities is id equality.
	ID() string
	// Name returns the item name, empty if never fetched.
	Name() string
	// MimeType returns the item mime type, empty if never fetched.
	MimeType() string
	// Kind returns the variant of the entity.
	Kind() Kind
	// URL returns the web link of the item.
	URL() string
	String() string
	Equal(other Entity) bool

	Parents(ctx context.Context) ([]*Folder, error)
	Copy(ctx context.Context, name string) (Entity, error)
	Delete(ctx context.Context) error
	PutToFolder(ctx context.Context, folder *Folder) error
	Refresh(ctx context.Context) error

	base() *File
}

// File is a generic Drive item and the base of every other variant.
type File struct {
	id       string
	name     string
	mimeType string
	kind     Kind
	binding  *Binding
}

// NewFile returns a standalone file for id. It has no credentials bound,
// so every remote operation on it fails with ErrUnbound.
func NewFile(id string) *File {
	return &File{id: id, kind: KindFile}
}

// ID returns the remote id.
func (f *File) ID() string { return f.id }

// Name returns the item name.
func (f *File) Name() string { return f.name }

// MimeType returns the item mime type.
func (f *File) MimeType() string { return f.mimeType }

// Kind returns the variant of the entity.
func (f *File) Kind() Kind { return f.kind }

// Bound reports whether the entity can make remote calls.
func (f *File) Bound() bool { return f.binding != nil }

func (f *File) base() *File { return f }

// URL returns the web link of the item.
func (f *File) URL() string {
	switch f.kind {
	case KindFolder:
		return "https://drive.google.com/drive/folders/" + f.id
	case KindSpreadsheet:
		return "https://docs.google.com/spreadsheets/d/" + f.id
	default:
		return "https://docs.google.com/document/d/" + f.id
	}
}

func (f *File) String() string {
	return fmt.Sprintf("%s(%s, %s)", f.kind, f.name, f.id)
}

// Equal reports whether other refers to the same remote item.
func (f *File) Equal(other Entity) bool {
	return Equal(f, other)
}

// Equal reports whether a and b refer to the same remote item. Two nil
// entities are equal, including typed nils such as (*File)(nil).
func Equal(a, b Entity) bool {
	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	return a.ID() == b.ID()
}

func isNil(e Entity) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *File:
		return v == nil
	case *Folder:
		return v == nil
	case *Document:
		return v == nil
	case *Spreadsheet:
		return v == nil
	}
	return false
}

// Parents returns the folders containing the item. Every call fetches the
// parent list again; nothing is cached.
func (f *File) Parents(ctx context.Context) ([]*Folder, error) {
	var item *drive.File
	err := f.binding.driveCall(ctx, instrumentation.OperationGet, f.id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		item, err = svc.Files.Get(f.id).Fields("parents").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get parents of %s: %w", f.id, err)
	}

	parents := make([]*Folder, 0, len(item.Parents))
	for _, id := range item.Parents {
		parents = append(parents, &Folder{File: File{id: id, kind: KindFolder, binding: f.binding}})
	}
	return parents, nil
}

// Copy duplicates the item on the server under a new name. The copy has
// the same kind as f.
func (f *File) Copy(ctx context.Context, name string) (Entity, error) {
	var item *drive.File
	err := f.binding.driveCall(ctx, instrumentation.OperationCopy, f.id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		item, err = svc.Files.Copy(f.id, &drive.File{Name: name}).Fields(fileFields).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy %s: %w", f.id, err)
	}

	return newEntity(f.kind, item, f.binding), nil
}

// Delete removes the item. The entity must not be used afterwards.
func (f *File) Delete(ctx context.Context) error {
	err := f.binding.driveCall(ctx, instrumentation.OperationDelete, f.id, func(ctx context.Context, svc *drive.Service) error {
		return svc.Files.Delete(f.id).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", f.id, err)
	}
	return nil
}

// PutToFolder adds folder to the item's parents. Existing parents are kept.
func (f *File) PutToFolder(ctx context.Context, folder *Folder) error {
	if folder == nil {
		return errors.New("folder is required")
	}

	err := f.binding.driveCall(ctx, instrumentation.OperationUpdate, f.id, func(ctx context.Context, svc *drive.Service) error {
		_, err := svc.Files.Update(f.id, &drive.File{}).
			AddParents(folder.ID()).
			Fields("id, parents").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put %s into folder %s: %w", f.id, folder.ID(), err)
	}
	return nil
}

// Refresh re-reads the name and mime type of the item.
func (f *File) Refresh(ctx context.Context) error {
	var item *drive.File
	err := f.binding.driveCall(ctx, instrumentation.OperationGet, f.id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		item, err = svc.Files.Get(f.id).Fields(fileFields).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get file %s: %w", f.id, err)
	}

	f.name = item.Name
	f.mimeType = item.MimeType
	return nil
}
