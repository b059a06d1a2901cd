package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FlowPath      string // hcl flow definition file or directory
	LaunchpadPath string // yaml launchpad configuration

	LogFormat string
	LogLevel  string

	AddCleanup bool   // append a final cleanup container to every flow
	DryRun     bool   // build and summarize, do not submit
	HarvestID  string // harvest results for this workflow id instead of submitting
}

// NewConfig validates a configuration and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" && cfg.HarvestID == "" {
		return nil, errors.New("either a flow path or a workflow id to harvest is required")
	}
	if cfg.DryRun && cfg.HarvestID != "" {
		return nil, errors.New("dry-run does not apply to harvesting")
	}
	return &cfg, nil
}
