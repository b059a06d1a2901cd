package stageid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idRegex validates the canonical wire form of a stage index.
var idRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// String serializes the ID into its canonical wire representation.
func (id ID) String() string {
	if id.Autoparal {
		return string(id.Stage) + "_" + AutoparalSentinel
	}
	if id.Index == -1 {
		return string(id.Stage)
	}
	return fmt.Sprintf("%s_%d", id.Stage, id.Index)
}

// Parse creates an ID by parsing its canonical wire representation.
//
// Stage names may themselves contain underscores (`strain_pert`), so only
// the final segment is considered a candidate suffix: if it is the
// autoparal sentinel the ID marks a dry run, if it is an integer it becomes
// the sequence number, and otherwise the whole string is an unindexed
// stage. A non-integer suffix is therefore never an error here; callers
// that require a sequence number skip unindexed IDs instead.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("stage index cannot be empty")
	}
	if !idRegex.MatchString(raw) {
		return ID{}, fmt.Errorf("invalid stage index format: %q", raw)
	}

	cut := strings.LastIndex(raw, "_")
	if cut == -1 {
		return Unindexed(Stage(raw)), nil
	}

	prefix, suffix := raw[:cut], raw[cut+1:]
	if suffix == AutoparalSentinel {
		return ID{Stage: Stage(prefix), Index: -1, Autoparal: true}, nil
	}
	if index, err := strconv.Atoi(suffix); err == nil {
		return ID{Stage: Stage(prefix), Index: index}, nil
	}
	return Unindexed(Stage(raw)), nil
}
