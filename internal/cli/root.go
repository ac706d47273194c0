package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that supply flag defaults,
// e.g. ZXB_FORMAT, ZXB_BACKEND, ZXB_HNSW_EF.
const EnvPrefix = "ZXB"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional config file read through viper

	// TraceIDs generates the trace id attached to each response.
	// Defaults to UUIDv7.
	TraceIDs TraceIDGenerator

	config *viper.Viper
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the zxb CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zxb",
		Short: "zxb - query builder",
		Long: `Render SQL and vector-search requests from query definition files.

Conditions whose values are zero or empty are dropped automatically, so a
definition only filters on what it actually sets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file supplying flag defaults")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// setup resolves configuration: flags override ZXB_* environment variables,
// which override the config file.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("format", "text")

	if err := v.BindPFlag("format", cmd.Flags().Lookup("format")); err != nil {
		return WrapExitError(ExitCommandError, "binding --format", err)
	}

	if o.Config != "" {
		v.SetConfigFile(o.Config)
		if err := v.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("reading config %s", o.Config), err)
		}
	}

	o.Format = v.GetString("format")
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.config = v

	if o.TraceIDs == nil {
		o.TraceIDs = uuidTraceIDs{}
	}
	return nil
}

// settings returns the resolved viper instance. Commands run without the
// root (as in tests) get environment lookups only.
func (o *RootOptions) settings() *viper.Viper {
	if o.config == nil {
		v := viper.New()
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		o.config = v
	}
	return o.config
}

func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	if o.TraceIDs == nil {
		o.TraceIDs = uuidTraceIDs{}
	}
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		TraceID: o.TraceIDs.Generate(),
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
