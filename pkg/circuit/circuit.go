// Package circuit indexes the nodes and unknown currents of a parsed netlist
// and builds its devices.
package circuit

import (
	"errors"

	"github.com/edp1096/circuit-analyzer/pkg/device"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

type Circuit struct {
	Elements []netlist.Element
	Nodes    NodeSet
	Registry *Registry

	// Warnings holds issues tolerated in lenient mode.
	Warnings []*cerrors.Error

	devices []device.Device
}

type BuildOptions struct {
	// Lenient keeps malformed lines and node gaps as warnings instead of
	// failing. Unknown element types and unresolved references still fail.
	Lenient bool
}

// Build indexes nodes, registers unknown currents and resolves every
// reference between elements. All fatal problems are reported together.
func Build(data *netlist.NetlistData, opts BuildOptions) (*Circuit, error) {
	c := &Circuit{Elements: data.Elements}

	var fatal []error
	for _, issue := range data.Issues {
		if opts.Lenient && !cerrors.Fatal(issue) {
			c.Warnings = append(c.Warnings, issue)
			continue
		}
		fatal = append(fatal, issue)
	}

	seen := make(map[string]int)
	for _, e := range c.Elements {
		if line, dup := seen[e.Name]; dup {
			fatal = append(fatal, cerrors.AtLine(cerrors.ErrCodeInvalidInput, e.Line,
				"element %s already defined on line %d", e.Name, line))
			continue
		}
		seen[e.Name] = e.Line
	}

	if len(c.Elements) == 0 {
		fatal = append(fatal, cerrors.New(cerrors.ErrCodeInvalidInput, "netlist has no valid elements"))
	}

	nodes, err := IndexNodes(c.Elements)
	c.Nodes = nodes
	if err != nil {
		var e *cerrors.Error
		if opts.Lenient && errors.As(err, &e) {
			c.Warnings = append(c.Warnings, e)
		} else {
			fatal = append(fatal, err)
		}
	}

	c.Registry = NewRegistry(c.Elements)
	for _, elem := range c.Elements {
		dev, err := device.New(elem, c.Registry)
		if err != nil {
			fatal = append(fatal, lineError(err, elem.Line))
			continue
		}
		c.devices = append(c.devices, dev)
	}

	if len(fatal) > 0 {
		return nil, errors.Join(fatal...)
	}
	return c, nil
}

// lineError attaches a netlist line to structured errors that lack one.
func lineError(err error, line int) error {
	for _, e := range cerrors.All(err) {
		if e.Line == 0 {
			e.Line = line
		}
	}
	return err
}

// Size returns n + m.
func (c *Circuit) Size() int {
	return c.Nodes.Count + c.Registry.Len()
}

func (c *Circuit) GetDevices() []device.Device {
	return c.devices
}

// Currents returns the unknown-current names in registry order.
func (c *Circuit) Currents() []string {
	out := make([]string, c.Registry.Len())
	for i := range out {
		out[i] = c.Registry.Unknown(i)
	}
	return out
}

// Stamp stamps every device into fresh blocks.
func (c *Circuit) Stamp() (*matrix.Blocks, error) {
	blocks := matrix.NewBlocks(c.Nodes.Count, c.Registry.Len())
	devs := make([]matrix.Device, len(c.devices))
	for i, d := range c.devices {
		devs[i] = d
	}
	if err := matrix.StampAll(blocks, devs); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Assemble stamps and lays out the full system.
func (c *Circuit) Assemble() (*matrix.Blocks, *matrix.System, error) {
	blocks, err := c.Stamp()
	if err != nil {
		return nil, nil, err
	}
	return blocks, matrix.Assemble(blocks, c.Currents()), nil
}
