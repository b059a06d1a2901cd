package execspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QueueProfile describes the resource-queue adapter parameters attached to
// a spec under the _queueadapter key. The engine's queue adapter consumes
// it; this layer only carries it through.
type QueueProfile struct {
	Queue    string `yaml:"queue" json:"queue"`
	Walltime string `yaml:"walltime" json:"walltime"`
	MinCores int    `yaml:"min_cores" json:"min_cores"`
	MaxCores int    `yaml:"max_cores" json:"max_cores"`
}

// ShortSingleCoreProfile returns the profile used for autoparal dry runs
// and lightweight bookkeeping steps: one core, a ten-minute wall.
func ShortSingleCoreProfile() QueueProfile {
	return QueueProfile{
		Queue:    "short",
		Walltime: "0:10:00",
		MinCores: 1,
		MaxCores: 1,
	}
}

// LoadQueueProfile reads a queue profile from a YAML file, overriding the
// built-in short single-core defaults field by field.
func LoadQueueProfile(path string) (QueueProfile, error) {
	profile := ShortSingleCoreProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return QueueProfile{}, fmt.Errorf("read queue profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return QueueProfile{}, fmt.Errorf("parse queue profile %s: %w", path, err)
	}
	return profile, nil
}

// asMap flattens the profile into the plain mapping stored on a spec.
func (p QueueProfile) asMap() map[string]any {
	return map[string]any{
		"queue":     p.Queue,
		"walltime":  p.Walltime,
		"min_cores": p.MinCores,
		"max_cores": p.MaxCores,
	}
}
