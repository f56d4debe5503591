package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/gdocs/internal/instrumentation"
)

// Document is a Google Docs document.
type Document struct {
	File
}

// NewDocument returns a standalone document for id without credentials.
func NewDocument(id string) *Document {
	return &Document{File: File{id: id, mimeType: MimeTypeDocument, kind: KindDocument}}
}

// ExportTo writes the document converted to mimeType into w and returns
// the number of bytes written. An empty mimeType means DefaultExportMimeType.
func (d *Document) ExportTo(ctx context.Context, w io.Writer, mimeType string) (int64, error) {
	if mimeType == "" {
		mimeType = DefaultExportMimeType
	}

	body, err := d.download(ctx, mimeType)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("failed to read export of %s: %w", d.id, err)
	}
	d.binding.recordExport(ctx, mimeType, n)
	return n, nil
}

// Export writes the document converted to mimeType to the local file at
// path. The file is only created once the remote side answered; an existing
// file is overwritten.
func (d *Document) Export(ctx context.Context, path, mimeType string) error {
	if mimeType == "" {
		mimeType = DefaultExportMimeType
	}

	body, err := d.download(ctx, mimeType)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write export of %s to %s: %w", d.id, path, err)
	}

	d.binding.recordExport(ctx, mimeType, n)
	return nil
}

func (d *Document) download(ctx context.Context, mimeType string) (io.ReadCloser, error) {
	var resp *http.Response
	err := d.binding.driveCall(ctx, instrumentation.OperationExport, d.id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		resp, err = svc.Files.Export(d.id, mimeType).Context(ctx).Download()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as %s: %w", d.id, mimeType, err)
	}
	return resp.Body, nil
}

// Update replaces the document content with the local file at path, which
// is uploaded as mimeType and converted by the server. An empty mimeType
// means DefaultExportMimeType.
func (d *Document) Update(ctx context.Context, path, mimeType string) error {
	if mimeType == "" {
		mimeType = DefaultExportMimeType
	}

	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()

	info, err := fh.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return errors.New(path + " is a directory")
	}

	var item *drive.File
	err = d.binding.driveCall(ctx, instrumentation.OperationUpdate, d.id, func(ctx context.Context, svc *drive.Service) error {
		var err error
		item, err = svc.Files.Update(d.id, &drive.File{}).
			Media(fh, googleapi.ContentType(mimeType)).
			Fields(fileFields).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update %s from %s: %w", d.id, path, err)
	}

	if item.Name != "" {
		d.name = item.Name
	}
	if item.MimeType != "" {
		d.mimeType = item.MimeType
	}
	return nil
}
