package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/gdocs/internal/config"
	"github.com/teemow/gdocs/internal/documents"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Get, list, copy, delete and move Drive items",
	}

	cmd.AddCommand(
		newFilesGetCmd(),
		newFilesListCmd(),
		newFilesCopyCmd(),
		newFilesRemoveCmd(),
		newFilesPutCmd(),
		newFilesParentsCmd(),
		newFilesChildrenCmd(),
		newFilesURLCmd(),
	)
	return cmd
}

// fileManager returns the manager for kind with the resolved credentials
func fileManager(kind documents.Kind) (*documents.Manager, error) {
	st, err := loadSettings(config.CLIOverrides{})
	if err != nil {
		return nil, err
	}
	return st.binding(nil).Manager(kind), nil
}

// printEntities writes one tab-aligned line per entity
func printEntities(w io.Writer, entities []documents.Entity) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME")
	for _, e := range entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID(), e.Kind(), e.Name())
	}
	return tw.Flush()
}

// getEntity fetches id, failing when it does not exist
func getEntity(ctx context.Context, manager *documents.Manager, id string) (documents.Entity, error) {
	entity, err := manager.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%s %s not found", manager.Kind(), id)
	}
	return entity, nil
}

func newFilesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a Drive item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			entity, err := getEntity(cmd.Context(), manager, args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID:\t%s\n", entity.ID())
			fmt.Fprintf(tw, "Name:\t%s\n", entity.Name())
			fmt.Fprintf(tw, "Kind:\t%s\n", entity.Kind())
			fmt.Fprintf(tw, "Mime type:\t%s\n", entity.MimeType())
			fmt.Fprintf(tw, "URL:\t%s\n", entity.URL())
			return tw.Flush()
		},
	}
}

// parseWhere turns key=value pairs into criteria. "true" and "false" become
// booleans, everything else is a substring match.
func parseWhere(pairs []string) (documents.Criteria, error) {
	criteria := documents.Criteria{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		switch value {
		case "true", "false":
			criteria[key] = value == "true"
		default:
			criteria[key] = value
		}
	}
	return criteria, nil
}

func newFilesListCmd() *cobra.Command {
	var (
		kind   string
		name   string
		folder string
		where  []string
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List Drive items matching all given filters",
		Long: `List Drive items matching all given filters.

Filters given with --where use snake_case Drive field names. "true" and
"false" match boolean fields, any other value matches fields containing it:

  gdocs files ls --kind spreadsheet --where starred=true --where full_text=budget`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := documents.ParseKind(kind)
			if err != nil {
				return err
			}
			criteria, err := parseWhere(where)
			if err != nil {
				return err
			}
			if name != "" {
				criteria["name"] = name
			}
			if folder != "" {
				criteria[documents.FolderKey] = folder
			}

			manager, err := fileManager(k)
			if err != nil {
				return err
			}
			entities, err := manager.Filter(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			return printEntities(cmd.OutOrStdout(), entities)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "file", "Kind of item: file, folder, document or spreadsheet")
	cmd.Flags().StringVar(&name, "name", "", "Only items whose name contains this text")
	cmd.Flags().StringVar(&folder, "folder", "", "Only items directly inside this folder ID")
	cmd.Flags().StringArrayVar(&where, "where", nil, "Additional key=value filter (repeatable)")
	return cmd
}

func newFilesCopyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "copy ID",
		Short: "Copy a Drive item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			original, err := getEntity(cmd.Context(), manager, args[0])
			if err != nil {
				return err
			}
			copied, err := original.Copy(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s\n", original, copied)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the copy")
	return cmd
}

func newFilesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Permanently delete Drive items",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := manager.Ref(id).Delete(cmd.Context()); err != nil {
					return fmt.Errorf("failed to delete %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}

func newFilesPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put ID FOLDER_ID",
		Short: "Add a Drive item to a folder, keeping its other parents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			folder := manager.Binding().Folders().Ref(args[1]).(*documents.Folder)
			if err := manager.Ref(args[0]).PutToFolder(cmd.Context(), folder); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to folder %s\n", args[0], args[1])
			return nil
		},
	}
}

func newFilesParentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parents ID",
		Short: "List the folders containing a Drive item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			parents, err := manager.Ref(args[0]).Parents(cmd.Context())
			if err != nil {
				return err
			}
			entities := make([]documents.Entity, 0, len(parents))
			for _, p := range parents {
				entities = append(entities, p)
			}
			return printEntities(cmd.OutOrStdout(), entities)
		},
	}
}

func newFilesChildrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children FOLDER_ID",
		Short: "List the items directly inside a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFolder)
			if err != nil {
				return err
			}
			children, err := manager.Ref(args[0]).(*documents.Folder).Children(cmd.Context())
			if err != nil {
				return err
			}
			return printEntities(cmd.OutOrStdout(), children)
		},
	}
}

func newFilesURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url ID",
		Short: "Print the web link of a Drive item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := fileManager(documents.KindFile)
			if err != nil {
				return err
			}
			entity, err := getEntity(cmd.Context(), manager, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entity.URL())
			return nil
		},
	}
}
