// Package abinput models calculation inputs for the ab initio code and the
// factories that generate them from high-level physical parameters.
//
// Inputs are treated as opaque var mappings by the rest of the system: the
// workflow builders only thread them through to task wrappers. The factory
// functions mirror the upstream input-generation library closely enough to
// drive the from-factory construction paths; physical validation of the
// generated variables is explicitly out of scope.
package abinput
