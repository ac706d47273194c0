package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fndome/zxb/internal/querydef"
)

// CheckResult reports how a definition would be applied.
type CheckResult struct {
	Valid      bool               `json:"valid"`
	Source     string             `json:"source"`
	Table      string             `json:"table"`
	Backend    string             `json:"backend"`
	Conditions []CheckedCondition `json:"conditions"`
}

// CheckedCondition is one where entry and whether the builder keeps it.
type CheckedCondition struct {
	Field    string `json:"field"`
	Op       string `json:"op"`
	Value    string `json:"value"`
	Filtered bool   `json:"filtered"`
}

func (r *CheckResult) String() string {
	kept, filtered := 0, 0
	for _, c := range r.Conditions {
		if c.Filtered {
			filtered++
		} else {
			kept++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ %s is valid (table %s, backend %s)\n", r.Source, r.Table, r.Backend)
	fmt.Fprintf(&sb, "  %d condition(s) kept, %d filtered", kept, filtered)
	for _, c := range r.Conditions {
		mark := "keep  "
		if c.Filtered {
			mark = "filter"
		}
		fmt.Fprintf(&sb, "\n  %s %s %s %s", mark, c.Field, c.Op, c.Value)
	}
	return sb.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a query definition",
		Long: `Validate a YAML or CUE query definition without rendering it.

Reports every problem found, and for valid definitions lists which
conditions are kept and which are dropped because their value is zero or
empty.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.log().With("trace_id", formatter.TraceID)

	def, err := querydef.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to load definition", err)
	}

	if errs := def.Validate(); len(errs) > 0 {
		return outputCheckErrors(formatter, errs)
	}

	steps, err := def.Steps()
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid definition", err)
	}
	be, err := def.Backend()
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid definition", err)
	}

	result := &CheckResult{
		Valid:      true,
		Source:     path,
		Table:      def.Table,
		Backend:    be.Name(),
		Conditions: make([]CheckedCondition, 0, len(steps)),
	}
	for _, s := range steps {
		result.Conditions = append(result.Conditions, CheckedCondition{
			Field:    s.Field,
			Op:       s.Op,
			Value:    s.Value.String(),
			Filtered: s.Filtered,
		})
		if s.Filtered {
			logger.Debug("condition will be filtered", "field", s.Field, "op", s.Op)
		}
	}

	return formatter.Success(result)
}

func outputCheckErrors(formatter *OutputFormatter, errs []*querydef.DefinitionError) error {
	problems := make([]Problem, 0, len(errs))
	for _, e := range errs {
		problems = append(problems, problemFromDefinition(e))
	}
	_ = formatter.Error(errs[0].Code, "validation failed", problems)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
