package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		output string
		dot    bool
	)

	cmd := &cobra.Command{
		Use:   "render <netlist>",
		Short: "Draw the circuit topology",
		Long:  `Render nodes as circles and elements as labelled edges. Control dependencies are dashed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			text, err := readNetlist(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := netlist.Parse(text)
			if err != nil {
				return err
			}
			if err := data.Err(); err != nil {
				return err
			}

			src := render.ToDOT(data.Elements)
			var out []byte
			if dot {
				out = []byte(src)
			} else {
				logger.Debug("rendering", "elements", len(data.Elements))
				if out, err = render.RenderSVG(ctx, src); err != nil {
					return cerrors.Wrap(cerrors.ErrCodeInternal, err, "render svg")
				}
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(cmd.ErrOrStderr(), "wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&dot, "dot", false, "emit Graphviz DOT instead of SVG")
	return cmd
}
