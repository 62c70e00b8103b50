// Package opf assembles the cost objective for an optimal power flow run.
//
// [BuildObjective] takes a prepared case and per-category cost attributes and
// attaches the gencost table to the case. In the loss-minimizing mode it
// additionally builds the generalized quadratic cost block: one auxiliary
// variable per branch for the voltage-magnitude difference and one for the
// angle difference across the branch, a diagonal penalty weighted by the
// branch admittance magnitude, and equality constraints tying each auxiliary
// variable to its bus-difference.
package opf
