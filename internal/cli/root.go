package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/edp1096/circuit-analyzer/internal/config"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

var version = "dev"

// SetVersion sets the string printed by --version.
func SetVersion(v string) {
	version = v
}

// Execute runs the CLI. Errors are printed before returning.
func Execute() error {
	root := newRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		printError(os.Stderr, "%s", cerrors.UserMessage(err))
		if all := cerrors.All(err); len(all) > 1 {
			for _, e := range all {
				printDetail(os.Stderr, "  %s", cerrors.UserMessage(e))
			}
		}
	}
	return err
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           "circuit-analyzer",
		Short:         "Modified nodal analysis of linear SPICE netlists",
		Long:          `circuit-analyzer parses a SPICE-style netlist, builds the symbolic MNA system A·X = Z and solves it numerically or in closed form.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.LogLevel()
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("circuit-analyzer %s\n", version))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	return root
}
