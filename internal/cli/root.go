// Package cli implements pqinspect, a command-line inspector for proxy
// definitions. It shows how each property is classified and adapted, and
// what its domains allow.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pqinspect",
		Short: "Inspect proxy definitions and their property adaptations",
		Long: `pqinspect loads a document of proxy definitions and shows how each
property is classified, what value its adaptor presents, and which values its
domains allow.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if cfg.Verbose && cfg.File != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.File)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pqinspect.yaml)")
	rootCmd.PersistentFlags().StringP("definitions", "d", "", "proxy definitions file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table|json)")
	rootCmd.PersistentFlags().Bool("expand-pieces", false, "list the pieces of multipiece datasets")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newShapesCommand())
	rootCmd.AddCommand(newDomainsCommand())
	rootCmd.AddCommand(newTreeCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{Definitions: DefaultDefinitions, Output: DefaultOutput}
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadProxies creates the proxies of the configured definitions document,
// keeping only those named in filter when it is not empty.
func loadProxies(cfg *Config, filter []string) ([]*proxy.Proxy, error) {
	defs, err := proxy.LoadDefinitionsFile(cfg.Definitions)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	var proxies []*proxy.Proxy
	for _, def := range defs {
		if !matches(filter, def) {
			continue
		}
		px, err := def.New()
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, px)
	}
	if len(filter) > 0 && len(proxies) == 0 {
		return nil, fmt.Errorf("no proxy matches %v", filter)
	}
	return proxies, nil
}

// matches accepts "Name" or "group/Name".
func matches(filter []string, def proxy.Definition) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == def.Name || f == def.Group+"/"+def.Name {
			return true
		}
	}
	return false
}
