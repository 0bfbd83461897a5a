package device

import (
	"fmt"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

// New builds the device for elem. Branch indices and references to other
// elements are resolved through r, so an unknown control or inductor name
// fails here, before anything is stamped.
func New(elem netlist.Element, r Resolver) (Device, error) {
	nodes := elem.Nodes()

	var dev Device
	switch elem.Kind {
	case netlist.KindResistor:
		return NewResistor(elem.Name, nodes, elem.Value), nil
	case netlist.KindCapacitor:
		return NewCapacitor(elem.Name, nodes, elem.Value), nil
	case netlist.KindCurrentSource:
		return NewCurrentSource(elem.Name, nodes, elem.Value), nil
	case netlist.KindVCCS:
		return withParam(NewVCCS(elem.Name, nodes, elem.Value), elem.Param), nil

	case netlist.KindInductor:
		dev = NewInductor(elem.Name, nodes, elem.Value)
	case netlist.KindVoltageSource:
		dev = NewVoltageSource(elem.Name, nodes, elem.Value)
	case netlist.KindOpAmp:
		dev = NewOpAmp(elem.Name, nodes)
	case netlist.KindVCVS:
		dev = withParam(NewVCVS(elem.Name, nodes, elem.Value), elem.Param)

	case netlist.KindCCCS, netlist.KindCCVS:
		ctrlIdx, _, err := r.Branch(elem.Ctrl)
		if err != nil {
			return nil, fmt.Errorf("%s control: %w", elem.Name, err)
		}
		if elem.Kind == netlist.KindCCCS {
			dev = withParam(NewCCCS(elem.Name, nodes, elem.Ctrl, ctrlIdx, elem.Value), elem.Param)
		} else {
			dev = withParam(NewCCVS(elem.Name, nodes, elem.Ctrl, ctrlIdx, elem.Value), elem.Param)
		}

	case netlist.KindMutual:
		var indices [2]int
		for i, name := range [2]string{elem.L1, elem.L2} {
			idx, kind, err := r.Branch(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", elem.Name, err)
			}
			if kind != netlist.KindInductor {
				return nil, cerrors.New(cerrors.ErrCodeUnresolvedReference,
					"%s couples %s, which is a %s, not an inductor", elem.Name, name, kind)
			}
			indices[i] = idx
		}
		return withParam(NewMutual(elem.Name, [2]string{elem.L1, elem.L2}, indices, elem.Value), elem.Param), nil

	default:
		return nil, cerrors.New(cerrors.ErrCodeUnknownElement, "no device for element %s", elem.Name)
	}

	idx, _, err := r.Branch(elem.Name)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceCountMismatch, err, "%s has no registered branch current", elem.Name)
	}
	dev.(interface{ SetBranchIndex(int) }).SetBranchIndex(idx)
	return dev, nil
}

func withParam[D interface{ setParam(string) }](dev D, param string) D {
	dev.setParam(param)
	return dev
}
