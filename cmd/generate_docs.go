package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every MCP tool, read from the
tool definitions the server registers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runGenerateDocs(out)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(out io.Writer) error {
	// Registration never resolves credentials.
	sc, err := server.NewServerContext(context.Background(), documents.NewBinding())
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("gdocs", version, mcpserver.WithToolCapabilities(true))
	if err := registerAllTools(mcpSrv, sc, false); err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	return writeToolsReference(out, tools)
}

// toolCategories lists the reference sections in order, keyed by tool name
// prefix.
var toolCategories = []struct{ prefix, title string }{
	{"drive", "Google Drive Tools"},
	{"docs", "Google Docs Tools"},
	{"sheets", "Google Sheets Tools"},
}

const otherTools = "Other"

func toolCategory(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	for _, c := range toolCategories {
		if c.prefix == prefix {
			return c.title
		}
	}
	return otherTools
}

type referenceArg struct {
	Name        string
	Required    bool
	Description string
}

type referenceTool struct {
	Name        string
	Description string
	Args        []referenceArg
}

type referenceSection struct {
	Title  string
	Anchor string
	Tools  []referenceTool
}

func describeTool(tool mcp.Tool) referenceTool {
	rt := referenceTool{Name: tool.Name, Description: tool.Description}
	for name, raw := range tool.InputSchema.Properties {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		desc, _ := prop["description"].(string)
		if desc == "" {
			typ, _ := prop["type"].(string)
			if typ == "" {
				typ = "any"
			}
			desc = typ + " parameter"
		}
		rt.Args = append(rt.Args, referenceArg{
			Name:        name,
			Required:    slices.Contains(tool.InputSchema.Required, name),
			Description: desc,
		})
	}
	slices.SortFunc(rt.Args, func(a, b referenceArg) int { return strings.Compare(a.Name, b.Name) })
	return rt
}

func referenceSections(tools []mcp.Tool) []referenceSection {
	byTitle := map[string][]referenceTool{}
	for _, tool := range tools {
		title := toolCategory(tool.Name)
		byTitle[title] = append(byTitle[title], describeTool(tool))
	}

	titles := make([]string, 0, len(toolCategories)+1)
	for _, c := range toolCategories {
		titles = append(titles, c.title)
	}
	titles = append(titles, otherTools)

	var sections []referenceSection
	for _, title := range titles {
		ts := byTitle[title]
		if len(ts) == 0 {
			continue
		}
		slices.SortFunc(ts, func(a, b referenceTool) int { return strings.Compare(a.Name, b.Name) })
		sections = append(sections, referenceSection{
			Title:  title,
			Anchor: strings.ToLower(strings.ReplaceAll(title, " ", "-")),
			Tools:  ts,
		})
	}
	return sections
}

var toolsReference = template.Must(template.New("tools").Parse(`# MCP Tools Reference

Tools available when gdocs runs as an MCP server. Generated from the tool definitions by ` + "`gdocs generate-docs`" + `.

## Table of Contents
{{range .}}
- [{{.Title}}](#{{.Anchor}}){{end}}

## Credentials

Every tool takes an optional ` + "`credentials`" + ` argument naming a service-account key file.
Without it the server's configured key is used. Tools that change Drive are only
registered when the server runs with ` + "`--yolo`" + `.
{{range .}}
## {{.Title}}
{{range .Tools}}
### {{.Name}}
{{if .Description}}
{{.Description}}
{{end}}{{if .Args}}
**Arguments:**
{{range .Args}}- ` + "`{{.Name}}`" + ` ({{if .Required}}required{{else}}optional{{end}}): {{.Description}}
{{end}}{{end}}{{end}}{{end}}`))

func writeToolsReference(w io.Writer, tools []mcp.Tool) error {
	return toolsReference.Execute(w, referenceSections(tools))
}
