// Package app wires the layers together: it builds the application logger,
// loads flow definitions, assembles workflows, and submits them to (or
// harvests results from) the launchpad store.
package app
