package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/render"
	"github.com/edp1096/circuit-analyzer/pkg/util"
)

func newSweepCmd() *cobra.Command {
	var (
		flags     analysisFlags
		ac        analysis.SweepSpec
		param     string
		rangeSpec string
		plotPath  string
	)

	cmd := &cobra.Command{
		Use:   "sweep <netlist>",
		Short: "Sweep frequency or an element value",
		Long: `Without --param, run an AC sweep: s = j·2πf at every frequency point, with
DEC, OCT or LIN spacing.

With --param NAME --range START:STOP:STEP, sweep one element value at the
configured s.`,
		Example: `  circuit-analyzer sweep rc.cir --type DEC --points 41 --fstart 1 --fstop 1meg --plot bode.svg
  circuit-analyzer sweep divider.cir --param R2 --range 1k:10k:1k`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			text, err := readNetlist(cmd, args[0])
			if err != nil {
				return err
			}
			params, opts, err := flags.resolve(configFromContext(ctx).Analysis, logger)
			if err != nil {
				return err
			}
			opts.Symbolic = false
			out := cmd.OutOrStdout()

			if param != "" {
				spec, err := parseRange(param, rangeSpec)
				if err != nil {
					return err
				}
				res, err := analysis.SweepParameter(ctx, text, params, spec, opts)
				if err != nil {
					return err
				}
				printParamSweep(out, res)
				return nil
			}

			res, err := analysis.Sweep(ctx, text, params, ac, opts)
			if err != nil {
				return err
			}
			printACSweep(out, res)

			if plotPath != "" {
				f, err := os.Create(plotPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := render.Bode(f, res, render.BodeOptions{Title: args[0]}); err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "wrote %s", plotPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&ac.Type, "type", analysis.SweepDEC, "AC spacing: DEC, OCT or LIN")
	cmd.Flags().IntVar(&ac.Points, "points", 31, "total number of frequency points")
	cmd.Flags().Float64Var(&ac.FStart, "fstart", 1, "start frequency in Hz")
	cmd.Flags().Float64Var(&ac.FStop, "fstop", 1e6, "stop frequency in Hz")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a Bode plot SVG of the AC sweep")
	cmd.Flags().StringVar(&param, "param", "", "element whose value is swept")
	cmd.Flags().StringVar(&rangeSpec, "range", "", "START:STOP:STEP of the swept value, SPICE suffixes allowed")
	return cmd
}

func parseRange(name, spec string) (analysis.ParamSpec, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return analysis.ParamSpec{}, cerrors.New(cerrors.ErrCodeInvalidInput, "--range %q: want START:STOP:STEP", spec)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := netlist.ParseValue(p)
		if err != nil {
			return analysis.ParamSpec{}, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "--range %q", spec)
		}
		vals[i] = v
	}
	return analysis.ParamSpec{Name: name, Start: vals[0], Stop: vals[1], Step: vals[2]}, nil
}

func printACSweep(w io.Writer, res *analysis.SweepResult) {
	printTitle(w, fmt.Sprintf("AC Analysis Results (%d frequency points):", len(res.Frequencies)))
	fmt.Fprintln(w, "Frequency      Node Voltages (Magnitude/Phase)        Branch Currents (Magnitude/Phase)")
	fmt.Fprintln(w, "-----------------------------------------------------------------------------")

	for i, freq := range res.Frequencies {
		fmt.Fprintf(w, "%-13s", util.FormatFrequency(freq))
		for _, name := range res.Unknowns {
			mag, phase := res.Magnitude(name), res.Phase(name)
			fmt.Fprintf(w, "%s=%s<%sdeg  ", name, util.FormatMagnitude(mag[i]), util.FormatPhase(phase[i]))
		}
		fmt.Fprintln(w)
	}
}

func printParamSweep(w io.Writer, res *analysis.ParamResult) {
	printTitle(w, fmt.Sprintf("%s Sweep Results (%d points):", res.Name, len(res.Values)))
	fmt.Fprintln(w, "Sweep Values    Node Voltages        Branch Currents")
	fmt.Fprintln(w, "------------------------------------------------")

	unit := unitOf(res.Name)
	for i, val := range res.Values {
		fmt.Fprintf(w, "%s=%-11s  ", res.Name, util.FormatValueFactor(val, unit))
		for j, name := range res.Unknowns {
			u := "V"
			if strings.HasPrefix(name, "I_") {
				u = "A"
			}
			fmt.Fprintf(w, "%s=%s  ", name, formatSolution(res.Solutions[i][j], u))
		}
		fmt.Fprintln(w)
	}
}

func formatSolution(v complex128, unit string) string {
	if imag(v) == 0 {
		return util.FormatValueFactor(real(v), unit)
	}
	p := analysis.NewPhasor(v)
	return util.FormatPolar(p.Mag, p.Phase)
}

func unitOf(name string) string {
	kind, _ := netlist.KindOf(name)
	switch kind {
	case netlist.KindResistor:
		return "Ohm"
	case netlist.KindCapacitor:
		return "F"
	case netlist.KindInductor, netlist.KindMutual:
		return "H"
	case netlist.KindVoltageSource:
		return "V"
	case netlist.KindCurrentSource:
		return "A"
	}
	return ""
}
