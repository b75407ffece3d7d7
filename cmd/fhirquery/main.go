// Command fhirquery is a console for the FHIR search query front-end:
// parse a query to its AST, lint it against a server's capability
// statement, explain it in plain language, or list the completions an
// editor would offer at a cursor position.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
	"github.com/gofhir/query/builder"
	"github.com/gofhir/query/engine"
	"github.com/gofhir/query/internal/config"
	"github.com/gofhir/query/loader"
)

type app struct {
	log zerolog.Logger
	cfg *config.Config

	// flag overrides
	basePath     string
	metadataPath string
	output       string
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "fhirquery",
		Short:         "FHIR search query console",
		Version:       fq.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.basePath, "base-path", "", "FHIR endpoint mount prefix")
	root.PersistentFlags().StringVar(&a.metadataPath, "metadata", "", "CapabilityStatement JSON file")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "output format: text, json")

	root.AddCommand(a.parseCmd())
	root.AddCommand(a.lintCmd())
	root.AddCommand(a.explainCmd())
	root.AddCommand(a.completeCmd())
	root.AddCommand(a.metadataCmd())

	if err := root.Execute(); err != nil {
		a.log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setup loads configuration and applies flag overrides.
func (a *app) setup() error {
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.basePath != "" {
		cfg.BasePath = a.basePath
	}
	if a.metadataPath != "" {
		cfg.Metadata = a.metadataPath
	}
	if a.output != "" {
		cfg.Output = a.output
	}
	if cfg.Verbose {
		a.log = a.log.Level(zerolog.DebugLevel)
	} else {
		a.log = a.log.Level(zerolog.InfoLevel)
	}
	a.cfg = cfg
	return nil
}

// newEngine builds an engine over the configured metadata. Without a
// metadata file the engine runs with empty metadata: parsing and
// explanation work fully, diagnostics degrade to syntax-only checks.
func (a *app) newEngine() (*engine.Engine, error) {
	meta := &fq.Metadata{}
	if a.cfg.Metadata != "" {
		loaded, err := loader.LoadFile(a.cfg.Metadata)
		if err != nil {
			return nil, err
		}
		meta = loaded
		a.log.Debug().
			Int("resourceTypes", len(meta.ResourceTypes)).
			Str("file", a.cfg.Metadata).
			Msg("capability metadata loaded")
	}
	return engine.New(meta,
		fq.WithBasePath(a.cfg.BasePath),
		fq.WithSuggestionLimit(a.cfg.SuggestLimit),
	), nil
}

func (a *app) jsonOut() bool {
	return strings.EqualFold(a.cfg.Output, "json")
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// --- parse ---

// queryView is the JSON shape of a parsed query.
type queryView struct {
	Raw          string         `json:"raw"`
	Kind         ast.PathKind   `json:"kind"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	Operation    string         `json:"operation,omitempty"`
	Params       []builder.Param `json:"params"`
	Serialized   string         `json:"serialized"`
}

func viewOf(q *ast.Query) queryView {
	rt, _ := ast.ResourceTypeOf(q.Path)
	id, _ := ast.ResourceIDOf(q.Path)
	op, _ := ast.OperationOf(q.Path)
	return queryView{
		Raw:          q.Raw,
		Kind:         q.Path.Kind(),
		ResourceType: rt,
		ResourceID:   id,
		Operation:    op,
		Params:       builder.FromQuery(q).Params,
		Serialized:   q.Serialize(),
	}
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			q := eng.Parse(args[0])
			if a.jsonOut() {
				return printJSON(viewOf(q))
			}

			v := viewOf(q)
			fmt.Printf("path kind:     %s\n", v.Kind)
			if v.ResourceType != "" {
				fmt.Printf("resource type: %s\n", v.ResourceType)
			}
			if v.ResourceID != "" {
				fmt.Printf("resource id:   %s\n", v.ResourceID)
			}
			if v.Operation != "" {
				fmt.Printf("operation:     %s\n", v.Operation)
			}
			for _, p := range q.Params {
				fmt.Printf("param:         %s\n", ast.SerializeParam(p))
			}
			return nil
		},
	}
}

// --- lint ---

// lintResult is one query's lint outcome in JSON output.
type lintResult struct {
	Query       string          `json:"query"`
	Valid       bool            `json:"valid"`
	Diagnostics []fq.Diagnostic `json:"diagnostics,omitempty"`
}

func (a *app) lintCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "lint [query...]",
		Short: "Validate queries against the server's capability metadata",
		Long: `Validate queries against the server's capability metadata.

Queries come from the arguments, from --file (one query per line,
"-" for stdin), or both. The exit code is 1 when any query has an
error-severity diagnostic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := args
			if file != "" {
				fromFile, err := readQueries(file)
				if err != nil {
					return err
				}
				queries = append(queries, fromFile...)
			}
			if len(queries) == 0 {
				return fmt.Errorf("no queries given")
			}

			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			all, err := eng.LintAll(cmd.Context(), queries)
			if err != nil {
				return err
			}

			hasErrors := false
			results := make([]lintResult, 0, len(queries))
			for i, diags := range all {
				valid := true
				for _, d := range diags {
					if d.IsError() {
						valid = false
						hasErrors = true
					}
				}
				results = append(results, lintResult{Query: queries[i], Valid: valid, Diagnostics: diags})
			}

			if a.jsonOut() {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					status := "ok"
					if !r.Valid {
						status = "INVALID"
					}
					fmt.Printf("== %s == %s\n", r.Query, status)
					for _, d := range r.Diagnostics {
						fmt.Printf("  %-7s [%s] %s\n", d.Severity, d.Code, d.Message)
					}
				}
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `query file, one per line ("-" for stdin)`)
	return cmd
}

// readQueries reads one query per line, skipping blanks and # comments.
func readQueries(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var queries []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return queries, nil
}

// --- explain ---

func (a *app) explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "Describe a query in plain language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			items := eng.Explain(eng.Parse(args[0]))
			if a.jsonOut() {
				return printJSON(items)
			}
			for _, item := range items {
				fmt.Println("-", item.Text)
			}
			return nil
		},
	}
}

// --- complete ---

func (a *app) completeCmd() *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "complete <query>",
		Short: "List completions at a cursor offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if offset < 0 {
				offset = len(raw)
			}

			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			ctx := eng.Context(raw, offset)
			sugs := eng.Suggest(ctx)

			if a.jsonOut() {
				return printJSON(struct {
					Context     any `json:"context"`
					Suggestions any `json:"suggestions"`
				}{ctx, sugs})
			}

			fmt.Printf("context: %s", ctx.Kind)
			if ctx.Fragment != "" {
				fmt.Printf(" (fragment %q)", ctx.Fragment)
			}
			fmt.Println()
			for _, s := range sugs {
				if s.Detail != "" {
					fmt.Printf("  %-24s %s\n", s.Label, s.Detail)
				} else {
					fmt.Printf("  %s\n", s.Label)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", -1, "cursor offset (default: end of query)")
	return cmd
}

// --- metadata ---

func (a *app) metadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Summarize the loaded capability metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Metadata == "" {
				return fmt.Errorf("no metadata file configured (--metadata or FHIRQUERY_METADATA)")
			}
			meta, err := loader.LoadFile(a.cfg.Metadata)
			if err != nil {
				return err
			}

			paramCount := 0
			for _, ps := range meta.SearchParams {
				paramCount += len(ps)
			}
			issues := loader.NewExpressionChecker().CheckMetadata(meta)

			if a.jsonOut() {
				return printJSON(struct {
					ResourceTypes int                      `json:"resourceTypes"`
					SearchParams  int                      `json:"searchParams"`
					Issues        []loader.ExpressionIssue `json:"expressionIssues,omitempty"`
				}{len(meta.ResourceTypes), paramCount, issues})
			}

			fmt.Printf("resource types:    %d\n", len(meta.ResourceTypes))
			fmt.Printf("search parameters: %d\n", paramCount)
			fmt.Printf("expression issues: %d\n", len(issues))
			for _, iss := range issues {
				fmt.Printf("  %s.%s: %s\n", iss.ResourceType, iss.Param, iss.Err)
			}
			return nil
		},
	}
}
