package app

import (
	"context"
	"fmt"

	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/flowfile"
	"github.com/Matgenix/abiflows/internal/flows"
	"github.com/Matgenix/abiflows/internal/launchpad"
)

// Run executes the main application logic based on the provided
// configuration: harvest a submitted workflow, or assemble the configured
// flows and submit them.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HarvestID != "" {
		return a.harvest(ctx)
	}

	defs, err := flowfile.Load(ctx, a.config.FlowPath)
	if err != nil {
		return fmt.Errorf("failed to load flow definitions: %w", err)
	}
	a.logger.Info("Flow definitions loaded.", "count", len(defs))

	built := make([]flows.Flow, 0, len(defs))
	for _, def := range defs {
		flow, err := flowfile.Build(ctx, def)
		if err != nil {
			return err
		}
		if a.config.AddCleanup {
			flow.AddFinalCleanup(nil)
		}
		built = append(built, flow)
	}

	if a.config.DryRun {
		a.summarize(built, defs)
		return nil
	}
	return a.submit(ctx, built, defs)
}

// harvest extracts and persists the results of an already-submitted
// workflow, printing the stored result id.
func (a *App) harvest(ctx context.Context) error {
	lp, err := a.openLaunchPad(ctx)
	if err != nil {
		return err
	}
	defer lp.Close()

	resultID, err := flows.Harvest(ctx, lp, a.config.HarvestID)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	fmt.Fprintln(a.outW, resultID)
	return nil
}

// submit pushes every assembled workflow to the launchpad store.
func (a *App) submit(ctx context.Context, built []flows.Flow, defs []*flowfile.Def) error {
	lp, err := a.openLaunchPad(ctx)
	if err != nil {
		return err
	}
	defer lp.Close()

	for i, flow := range built {
		id, err := flow.AddToLaunchPad(ctx, lp)
		if err != nil {
			return fmt.Errorf("submit flow %q: %w", defs[i].Name, err)
		}
		a.logger.Info("Workflow submitted.",
			"flow", defs[i].Name, "kind", flow.Kind(), "workflow_id", id)
		fmt.Fprintln(a.outW, id)
	}
	return nil
}

// summarize prints a per-flow container and link count without touching
// the store.
func (a *App) summarize(built []flows.Flow, defs []*flowfile.Def) {
	for i, flow := range built {
		graph := flow.Graph()
		links := 0
		for _, fw := range graph.Fireworks() {
			links += len(graph.Children(fw))
		}
		fmt.Fprintf(a.outW, "%s (%s): %d containers, %d links\n",
			defs[i].Name, flow.Kind(), len(graph.Fireworks()), links)
		for _, fw := range graph.Fireworks() {
			fmt.Fprintf(a.outW, "  %s\n", fw.Name)
		}
	}
}

// openLaunchPad reads the launchpad configuration and opens the store.
func (a *App) openLaunchPad(ctx context.Context) (*launchpad.LaunchPad, error) {
	cfg, err := launchpad.LoadConfig(a.config.LaunchpadPath)
	if err != nil {
		return nil, err
	}
	lp, err := launchpad.Open(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Launchpad opened.", "path", cfg.Path)
	return lp, nil
}
