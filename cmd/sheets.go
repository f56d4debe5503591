package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/gdocs/internal/config"
	"github.com/teemow/gdocs/internal/documents"
)

// rangeTarget is a spreadsheet or one of its tabs
type rangeTarget interface {
	Read(ctx context.Context, rng string) ([][]any, error)
	Write(ctx context.Context, rng string, rows [][]any, opt documents.ValueInputOption) error
	Clear(ctx context.Context, rng string) error
	BatchRead(ctx context.Context, ranges []string) ([][][]any, error)
	BatchClear(ctx context.Context, ranges []string) error
}

// sheetsSession bundles what a sheets subcommand needs
type sheetsSession struct {
	settings *settings
	manager  *documents.SpreadsheetManager
}

func newSheetsSession(cli config.CLIOverrides) (*sheetsSession, error) {
	st, err := loadSettings(cli)
	if err != nil {
		return nil, err
	}
	return &sheetsSession{settings: st, manager: st.binding(nil).Spreadsheets()}, nil
}

// target returns the spreadsheet id, or its tab named sheet when given
func (s *sheetsSession) target(ctx context.Context, id, sheet string) (rangeTarget, error) {
	ss := s.manager.Spreadsheet(id)
	if sheet == "" {
		return ss, nil
	}
	return ss.SheetByTitle(ctx, sheet)
}

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Read and write Google Sheets spreadsheets",
	}

	cmd.AddCommand(
		newSheetsCreateCmd(),
		newSheetsReadCmd(),
		newSheetsWriteCmd(),
		newSheetsClearCmd(),
		newSheetsTabsCmd(),
		newSheetsAddTabCmd(),
		newSheetsRemoveTabCmd(),
	)
	return cmd
}

func newSheetsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create TITLE",
		Short: "Create a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			ss, err := s.manager.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n%s\n", ss, ss.URL())
			return nil
		},
	}
}

// printGrid writes rows tab-separated, or as JSON when asJSON is set
func printGrid(w io.Writer, rows [][]any, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(rows)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func newSheetsReadCmd() *cobra.Command {
	var (
		sheet  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "read ID RANGE...",
		Short: "Print the values of ranges",
		Long: `Print the values of ranges. Several ranges are read in one call and
printed in the order given, each under a "# RANGE" header.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			target, err := s.target(cmd.Context(), args[0], sheet)
			if err != nil {
				return err
			}

			ranges := args[1:]
			if len(ranges) == 1 {
				rows, err := target.Read(cmd.Context(), ranges[0])
				if err != nil {
					return err
				}
				return printGrid(cmd.OutOrStdout(), rows, asJSON)
			}

			grids, err := target.BatchRead(cmd.Context(), ranges)
			if err != nil {
				return err
			}
			if asJSON {
				result := make([]documents.ValueRange, len(ranges))
				for i, rng := range ranges {
					result[i] = documents.ValueRange{Range: rng, Values: grids[i]}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			for i, rng := range ranges {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", rng)
				if err := printGrid(cmd.OutOrStdout(), grids[i], false); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Tab title the range is relative to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the values as a JSON array of rows")
	return cmd
}

// parseRows builds the rows to write from --json or repeated --value flags.
// Each --value is one row of comma-separated cells.
func parseRows(jsonRows string, values []string) ([][]any, error) {
	if jsonRows != "" {
		if len(values) > 0 {
			return nil, fmt.Errorf("--json and --value are mutually exclusive")
		}
		var rows [][]any
		if err := json.Unmarshal([]byte(jsonRows), &rows); err != nil {
			return nil, fmt.Errorf("--json must be a JSON array of rows: %w", err)
		}
		return rows, nil
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to write: pass --value or --json")
	}

	rows := make([][]any, len(values))
	for i, v := range values {
		cells := strings.Split(v, ",")
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		rows[i] = row
	}
	return rows, nil
}

func newSheetsWriteCmd() *cobra.Command {
	var (
		sheet       string
		jsonRows    string
		values      []string
		inputOption string
	)

	cmd := &cobra.Command{
		Use:   "write ID RANGE",
		Short: "Write rows of values into a range",
		Long: `Write rows of values into a range.

  gdocs sheets write ID A1 --value a,b,c --value 1,2,3
  gdocs sheets write ID Sheet2!B2 --json '[["x", 1], ["y", 2]]' --input-option USER_ENTERED`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(jsonRows, values)
			if err != nil {
				return err
			}
			s, err := newSheetsSession(config.CLIOverrides{ValueInputOption: inputOption})
			if err != nil {
				return err
			}
			opt, err := s.settings.valueInputOption()
			if err != nil {
				return err
			}
			target, err := s.target(cmd.Context(), args[0], sheet)
			if err != nil {
				return err
			}
			if err := target.Write(cmd.Context(), args[1], rows, opt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Tab title the range is relative to")
	cmd.Flags().StringVar(&jsonRows, "json", "", "Rows as a JSON array of arrays")
	cmd.Flags().StringArrayVar(&values, "value", nil, "One row of comma-separated cells (repeatable)")
	cmd.Flags().StringVar(&inputOption, "input-option", "", "RAW or USER_ENTERED (default from config)")
	return cmd
}

func newSheetsClearCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "clear ID RANGE...",
		Short: "Clear the values of ranges",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			target, err := s.target(cmd.Context(), args[0], sheet)
			if err != nil {
				return err
			}
			ranges := args[1:]
			if len(ranges) == 1 {
				err = target.Clear(cmd.Context(), ranges[0])
			} else {
				err = target.BatchClear(cmd.Context(), ranges)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", strings.Join(ranges, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Tab title the ranges are relative to")
	return cmd
}

func newSheetsTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs ID",
		Short: "List the tabs of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			tabs, err := s.manager.Spreadsheet(args[0]).Sheets(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tID\tTITLE\tROWS\tCOLUMNS")
			for _, tab := range tabs {
				var rows, columns int64
				if tab.Grid != nil {
					rows, columns = tab.Grid.RowCount, tab.Grid.ColumnCount
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\n", tab.Index, tab.ID, tab.Title, rows, columns)
			}
			return tw.Flush()
		},
	}
}

func newSheetsAddTabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-tab ID TITLE",
		Short: "Add a tab to a spreadsheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			tab, err := s.manager.Spreadsheet(args[0]).AddSheet(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", tab)
			return nil
		},
	}
}

func newSheetsRemoveTabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-tab ID TITLE",
		Short: "Delete a tab and its contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSheetsSession(config.CLIOverrides{})
			if err != nil {
				return err
			}
			tab, err := s.manager.Spreadsheet(args[0]).SheetByTitle(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if err := tab.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tab %q\n", args[1])
			return nil
		},
	}
}
