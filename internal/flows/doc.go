// Package flows assembles workflow graphs for the ab initio calculation
// recipes: one builder per recipe (single SCF, relaxation pair, SCF+NSCF,
// SCF+hybrid, SCF+phonon generation, derivative-response triple).
//
// A builder instantiates the task wrappers with the right calculation
// inputs, groups them into execution containers with per-container specs,
// declares the precedence edges, and tags the graph with its workflow
// kind. After execution, the retrieval helpers use that tag to locate the
// authoritative final container in a reloaded graph and extract structured
// results from its run directory.
package flows
