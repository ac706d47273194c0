package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fndome/zxb/internal/backend"
	"github.com/fndome/zxb/internal/builder"
	"github.com/fndome/zxb/internal/ir"
	"github.com/fndome/zxb/internal/querydef"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Backend string
	HNSWEf  int
}

// RenderResult is the generated artifact for one definition.
// Relational fields and Document are mutually exclusive.
type RenderResult struct {
	Source   string          `json:"source"`
	Backend  string          `json:"backend"`
	SQL      string          `json:"sql,omitempty"`
	Args     []any           `json:"args,omitempty"`
	CountSQL string          `json:"count_sql,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`

	values []ir.Value
}

func (r *RenderResult) String() string {
	if r.Document != nil {
		return string(r.Document)
	}
	args := make([]string, len(r.values))
	for i, v := range r.values {
		args[i] = v.String()
	}
	return fmt.Sprintf("sql:   %s\nargs:  [%s]\ncount: %s", r.SQL, strings.Join(args, ", "), r.CountSQL)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a query definition",
		Long: `Render a YAML or CUE query definition into SQL with placeholder
arguments and a COUNT query, or into a vector-search request document when
the qdrant backend is selected.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Backend, "backend", "b", "", fmt.Sprintf("override the definition's backend (%s)", strings.Join(backend.Names, "|")))
	cmd.Flags().IntVar(&opts.HNSWEf, "hnsw-ef", 0, "override qdrant hnsw_ef")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	logger := rootOpts.log().With("trace_id", formatter.TraceID)

	v := rootOpts.settings()
	if err := v.BindPFlag("backend", cmd.Flags().Lookup("backend")); err != nil {
		return WrapExitError(ExitCommandError, "binding --backend", err)
	}
	if err := v.BindPFlag("hnsw_ef", cmd.Flags().Lookup("hnsw-ef")); err != nil {
		return WrapExitError(ExitCommandError, "binding --hnsw-ef", err)
	}

	def, err := querydef.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load definition", err)
	}
	logger.Debug("loaded definition", "source", path, "table", def.Table, "conditions", len(def.Where))

	if name := v.GetString("backend"); name != "" {
		def.BackendConfig.Name = name
	}
	if ef := v.GetInt("hnsw_ef"); ef > 0 {
		def.BackendConfig.Qdrant.HNSWEf = ef
	}

	b, err := querydef.Apply(def, builder.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid definition", err)
	}

	res, err := b.Generate()
	if err != nil {
		return formatter.Fail(ExitFailure, "generation failed", err)
	}

	result := &RenderResult{Source: path, Backend: b.Backend().Name()}
	switch r := res.(type) {
	case *backend.Relational:
		result.SQL = r.SQL
		result.Args = r.Params()
		result.CountSQL = r.CountSQL
		result.values = r.Args
	case *backend.Document:
		result.Document = json.RawMessage(r.Body)
	}

	logger.Debug("rendered definition", "source", path, "backend", result.Backend)
	return formatter.Success(result)
}
