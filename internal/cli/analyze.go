package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/edp1096/circuit-analyzer/internal/config"
	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// analysisFlags override the [analysis] section of the configuration.
type analysisFlags struct {
	s        string
	solver   string
	set      []string
	lenient  bool
	symbolic bool
	numeric  bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.s, "s", "s", "", `value of s, e.g. "1" or "0+6.283j"`)
	cmd.Flags().StringVar(&f.solver, "solver", "", "linear solver: dense or sparse")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "override an element value, e.g. --set R2=3k")
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "report malformed lines and node gaps as warnings")
	cmd.Flags().BoolVar(&f.symbolic, "symbolic", false, "solve in closed form as well")
	cmd.Flags().BoolVar(&f.numeric, "numeric", false, "skip the closed-form solve")
}

// resolve merges the flags over cfg into analysis parameters and options.
func (f *analysisFlags) resolve(cfg config.Analysis, logger *log.Logger) (analysis.Params, analysis.Options, error) {
	if f.s != "" {
		cfg.S = f.s
	}
	if f.solver != "" {
		cfg.Solver = f.solver
	}
	if f.lenient {
		cfg.Strict = false
	}
	if f.symbolic {
		cfg.Symbolic = true
	}
	if f.numeric {
		cfg.Symbolic = false
	}

	params, err := cfg.Params()
	if err != nil {
		return analysis.Params{}, analysis.Options{}, err
	}
	if params.Overrides, err = parseOverrides(f.set); err != nil {
		return analysis.Params{}, analysis.Options{}, err
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		return analysis.Params{}, analysis.Options{}, err
	}
	return params, opts, nil
}

func parseOverrides(set []string) (map[string]float64, error) {
	if len(set) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(set))
	for _, kv := range set {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "--set %q: want NAME=VALUE", kv)
		}
		v, err := netlist.ParseValue(value)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "--set %s", name)
		}
		out[name] = v
	}
	return out, nil
}

// readNetlist reads path, or stdin when path is "-".
func readNetlist(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read netlist")
	}
	return string(data), nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		flags  analysisFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "analyze <netlist>",
		Short: "Build and solve the MNA system of a netlist",
		Long: `Parse a netlist, stamp its elements into the G, B, C, D, I and Ev blocks,
assemble A·X = Z and solve it at the configured value of s.

Pass "-" to read the netlist from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if format != formatText && format != formatJSON {
				return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown format %q (want text or json)", format)
			}
			text, err := readNetlist(cmd, args[0])
			if err != nil {
				return err
			}
			params, opts, err := flags.resolve(configFromContext(ctx).Analysis, logger)
			if err != nil {
				return err
			}

			res, err := analysis.Run(ctx, text, params, opts)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				printWarning(cmd.ErrOrStderr(), "%s", cerrors.UserMessage(w))
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Report())
			}
			_, err = fmt.Fprint(out, res.Text())
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	return cmd
}
