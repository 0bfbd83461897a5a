package render

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// BodeOptions selects what a Bode plot draws.
type BodeOptions struct {
	Title    string
	Unknowns []string // defaults to every node voltage
	Width    vg.Length
	Height   vg.Length
}

func (o BodeOptions) withDefaults(res *analysis.SweepResult) BodeOptions {
	if len(o.Unknowns) == 0 {
		for _, name := range res.Unknowns {
			if len(name) > 1 && name[0] == 'v' {
				o.Unknowns = append(o.Unknowns, name)
			}
		}
	}
	if o.Width == 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 6 * vg.Inch
	}
	return o
}

// Bode writes an SVG with magnitude (dB) over phase (degrees) against a
// logarithmic frequency axis. Points at f <= 0 cannot be placed on the axis
// and are dropped.
func Bode(w io.Writer, res *analysis.SweepResult, opts BodeOptions) error {
	opts = opts.withDefaults(res)

	mag := plot.New()
	mag.Title.Text = opts.Title
	mag.Y.Label.Text = "Magnitude (dB)"
	phase := plot.New()
	phase.X.Label.Text = "Frequency (Hz)"
	phase.Y.Label.Text = "Phase (deg)"
	for _, p := range []*plot.Plot{mag, phase} {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Add(plotter.NewGrid())
	}

	for i, name := range opts.Unknowns {
		m, ph := res.Magnitude(name), res.Phase(name)
		if m == nil {
			return cerrors.New(cerrors.ErrCodeNotFound, "no unknown %s in sweep", name)
		}

		var magXY, phaseXY plotter.XYs
		for j, f := range res.Frequencies {
			if f <= 0 {
				continue
			}
			db := 20 * math.Log10(m[j])
			if !math.IsInf(db, 0) {
				magXY = append(magXY, plotter.XY{X: f, Y: db})
			}
			phaseXY = append(phaseXY, plotter.XY{X: f, Y: ph[j]})
		}
		if len(phaseXY) == 0 {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "sweep has no positive frequencies to plot")
		}

		for _, series := range []struct {
			p   *plot.Plot
			xys plotter.XYs
		}{{mag, magXY}, {phase, phaseXY}} {
			if len(series.xys) == 0 {
				continue
			}
			line, err := plotter.NewLine(series.xys)
			if err != nil {
				return fmt.Errorf("plot %s: %w", name, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1.5)
			series.p.Add(line)
			if series.p == mag {
				series.p.Legend.Add(name, line)
			}
		}
	}
	mag.Legend.Top = true

	canvas := vgsvg.New(opts.Width, opts.Height)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(10)}
	canvases := plot.Align([][]*plot.Plot{{mag}, {phase}}, tiles, draw.New(canvas))
	mag.Draw(canvases[0][0])
	phase.Draw(canvases[1][0])

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
