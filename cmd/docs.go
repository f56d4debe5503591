package cmd

import (
	"fmt"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/gdocs/internal/config"
	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/logging"
)

// exportExtensions maps the Drive export formats of documents to file
// extensions. Other types fall back to the system mime table.
var exportExtensions = map[string]string{
	documents.MimeTypeDocx:                    ".docx",
	documents.MimeTypeText:                    ".txt",
	"application/pdf":                         ".pdf",
	"application/rtf":                         ".rtf",
	"application/vnd.oasis.opendocument.text": ".odt",
	"application/epub+zip":                    ".epub",
	"application/zip":                         ".zip",
	"text/html":                               ".html",
	"text/markdown":                           ".md",
}

// exportExtension returns the file extension for mimeType
func exportExtension(mimeType string) string {
	if ext, ok := exportExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Export and update Google Docs documents",
	}

	cmd.AddCommand(newDocsExportCmd(), newDocsUpdateCmd())
	return cmd
}

func newDocsExportCmd() *cobra.Command {
	var (
		outDir      string
		mimeType    string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "export ID...",
		Short: "Export documents to local files",
		Long: `Export documents to local files named <ID><ext> in --out-dir.

The format defaults to export_mime_type from the config file (Word .docx).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(config.CLIOverrides{ExportMimeType: mimeType})
			if err != nil {
				return err
			}
			docs := st.binding(nil).Documents()
			format := st.config.ExportMimeType
			ext := exportExtension(format)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(concurrency, 1))

			paths := make([]string, len(args))
			for i, id := range args {
				paths[i] = filepath.Join(outDir, id+ext)
				g.Go(func() error {
					doc := docs.Ref(id).(*documents.Document)
					if err := doc.Export(ctx, paths[i], format); err != nil {
						return fmt.Errorf("failed to export %s: %w", id, err)
					}
					st.logger.Debug("document exported", logging.FileID(id), logging.Path(paths[i]))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, id := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", id, paths[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the exported files")
	cmd.Flags().StringVar(&mimeType, "mime", "", "Export mime type, e.g. application/pdf or text/plain")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of exports running at once")
	return cmd
}

func newDocsUpdateCmd() *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "update ID PATH",
		Short: "Replace the content of a document with a local file",
		Long: `Replace the content of a document with a local file. Drive converts the
upload into the document format; name and location are kept.

The local file is read as Word .docx unless --mime says otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(config.CLIOverrides{})
			if err != nil {
				return err
			}
			doc := st.binding(nil).Documents().Ref(args[0]).(*documents.Document)
			if err := doc.Update(cmd.Context(), args[1], mimeType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s from %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", documents.DefaultExportMimeType, "Mime type of the local file, e.g. text/plain")
	return cmd
}
