package documents

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
)

// Folder is a Drive folder.
type Folder struct {
	File
}

// NewFolder returns a standalone folder for id without credentials.
func NewFolder(id string) *Folder {
	return &Folder{File: File{id: id, mimeType: MimeTypeFolder, kind: KindFolder}}
}

// Contains reports whether the folder is one of e's parents. It fetches
// e's parents on every call.
func (fo *Folder) Contains(ctx context.Context, e Entity) (bool, error) {
	parents, err := e.Parents(ctx)
	if err != nil {
		return false, err
	}

	for _, parent := range parents {
		if parent.ID() == fo.id {
			return true, nil
		}
	}
	return false, nil
}

// Children lists the items inside the folder, each built through FromItem.
func (fo *Folder) Children(ctx context.Context) ([]Entity, error) {
	q, err := BuildQuery(KindFile, Criteria{"folder": fo.id})
	if err != nil {
		return nil, err
	}

	children, err := listFiles(ctx, fo.binding, q, func(item *drive.File) Entity {
		return FromItem(item, fo.binding)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", fo.id, err)
	}
	return children, nil
}
