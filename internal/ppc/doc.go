// Package ppc holds the solver-facing numerical representation of a power
// network: positional bus/branch/generator arrays, the column layout those
// arrays use, and the admittance matrices derived from them.
//
// The arrays are produced by an external preparation stage that converts the
// user-facing element tables into ordered rows. Row identity is positional;
// [Lookups] maps original element identifiers to row indices and must be
// validated before any consumer trusts it:
//
//	pc := ppc.NewCase(baseMVA, nb, nl, ng)
//	if err := lookups.Validate(pc.NumGen()); err != nil {
//	    return err
//	}
//
// # Ordering
//
// Generator rows tied to reference buses come first in the gen array. This is
// an ordering guarantee of the preparation stage, assumed (not enforced) by
// downstream consumers such as the OPF objective builder.
package ppc
