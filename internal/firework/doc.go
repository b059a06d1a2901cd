// Package firework models the unit of scheduling consumed by the external
// execution engine: execution containers ("fireworks") grouping one or
// more tasks under a shared execution spec, and the acyclic workflow graph
// wiring containers through precedence edges.
//
// The assembly layer constructs a graph once and submits it; afterwards
// the engine owns it. The only post-construction mutation this package
// allows is Append, which inserts a new terminal container and rewires the
// previous terminals as its predecessors.
package firework
