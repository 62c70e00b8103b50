package network

// Recycle flags which cached intermediates of a surrounding time-series
// solve a given element/variable update invalidates. It is a performance
// hint for the iteration framework, not a correctness requirement.
type Recycle struct {
	Trafo bool
	Gen   bool
	BusPQ bool
}

func (r Recycle) Any() bool { return r.Trafo || r.Gen || r.BusPQ }

// RecycleFor derives the hint for writes of variable on element. ok is false
// when the combination supports no recycling at all.
func RecycleFor(element, variable string) (r Recycle, ok bool) {
	switch element {
	case Sgen, Load, Storage:
		switch variable {
		case "p_mw", "q_mvar", "scaling":
			r.BusPQ = true
		}
	case Gen:
		switch variable {
		case "p_mw", "vm_pu", "scaling":
			r.Gen = true
		}
	case ExtGrid:
		switch variable {
		case "vm_pu", "va_degree":
			r.Gen = true
		}
	case Trafo, Trafo3W, Line:
		r.Trafo = true
	}
	return r, r.Any()
}

// RegisterRecycle records the hint a controller's element/variable
// combination implies, keyed by the controller's identifier.
func (n *Network) RegisterRecycle(owner, element, variable string) {
	if r, ok := RecycleFor(element, variable); ok {
		n.hints[owner] = r
	}
}

// RecycleHint reports the hint registered for owner, if any.
func (n *Network) RecycleHint(owner string) (Recycle, bool) {
	r, ok := n.hints[owner]
	return r, ok
}
