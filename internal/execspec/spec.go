package execspec

import (
	"encoding/json"

	"github.com/Matgenix/abiflows/internal/stageid"
)

// Well-known spec keys. Keys with a leading underscore are reserved words
// interpreted by the execution engine rather than by the tasks themselves.
const (
	KeyMPINCPUs           = "mpi_ncpus"
	KeyQueueAdapter       = "_queueadapter"
	KeyPriority           = "_priority"
	KeyInitializationInfo = "initialization_info"
	KeyStageID            = "wf_task_index"
	KeyDDBTaskTypes       = "ddb_files_task_types"
	KeyResultsDB          = "results_db"
)

// Spec is an execution specification. The zero value is not usable; use
// New or FromMap.
type Spec struct {
	m map[string]any
}

// New returns an empty spec.
func New() Spec {
	return Spec{m: make(map[string]any)}
}

// FromMap builds a spec from a caller-supplied mapping. The mapping is
// deep-copied, never aliased.
func FromMap(m map[string]any) Spec {
	s := New()
	for k, v := range m {
		s.m[k] = deepCopyValue(v)
	}
	return s
}

// Clone returns a deep copy of the spec.
func (s Spec) Clone() Spec {
	return FromMap(s.m)
}

// Set stores a value under key. It mutates the receiver; derive with Clone
// first when the spec is shared.
func (s Spec) Set(key string, v any) {
	s.m[key] = deepCopyValue(v)
}

// Get returns the raw value stored under key.
func (s Spec) Get(key string) (any, bool) {
	v, ok := s.m[key]
	return v, ok
}

// Len returns the number of keys in the spec.
func (s Spec) Len() int {
	return len(s.m)
}

// Map returns a deep copy of the underlying mapping.
func (s Spec) Map() map[string]any {
	out := make(map[string]any, len(s.m))
	for k, v := range s.m {
		out[k] = deepCopyValue(v)
	}
	return out
}

// WithInitializationInfo returns a copy of the spec carrying the given
// initialization info.
func (s Spec) WithInitializationInfo(info map[string]any) Spec {
	out := s.Clone()
	if info == nil {
		info = map[string]any{}
	}
	out.Set(KeyInitializationInfo, info)
	return out
}

// WithStageID returns a copy of the spec tagged with the given stage index.
func (s Spec) WithStageID(id stageid.ID) Spec {
	out := s.Clone()
	out.Set(KeyStageID, id.String())
	return out
}

// WithPriority returns a copy of the spec with the engine priority set.
func (s Spec) WithPriority(priority int) Spec {
	out := s.Clone()
	out.Set(KeyPriority, priority)
	return out
}

// ShortSingleCore returns a copy of the spec downgraded to a single-core
// profile sized for a short run: autoparal dry runs and lightweight
// bookkeeping steps use it.
func (s Spec) ShortSingleCore(profile QueueProfile) Spec {
	out := s.Clone()
	out.Set(KeyMPINCPUs, 1)
	out.Set(KeyQueueAdapter, profile.asMap())
	return out
}

// StageID parses the stage index tag, if present. The boolean reports
// whether the key exists at all; the error reports a malformed value.
func (s Spec) StageID() (stageid.ID, bool, error) {
	raw, ok := s.m[KeyStageID]
	if !ok {
		return stageid.ID{}, false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return stageid.ID{}, true, errNotAString(KeyStageID)
	}
	id, err := stageid.Parse(str)
	if err != nil {
		return stageid.ID{}, true, err
	}
	return id, true, nil
}

// CPUCount returns the configured MPI CPU count, defaulting to 1.
func (s Spec) CPUCount() int {
	raw, ok := s.m[KeyMPINCPUs]
	if !ok {
		return 1
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// Round-tripping through JSON turns ints into float64.
		return int(v)
	default:
		return 1
	}
}

// InitializationInfo returns the stored initialization info, or an empty
// mapping when none was set.
func (s Spec) InitializationInfo() map[string]any {
	raw, ok := s.m[KeyInitializationInfo]
	if !ok {
		return map[string]any{}
	}
	info, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return info
}

// MarshalJSON serializes the underlying mapping.
func (s Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.m)
}

// UnmarshalJSON replaces the spec contents with the decoded mapping.
func (s *Spec) UnmarshalJSON(data []byte) error {
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	s.m = m
	return nil
}

// deepCopyValue copies nested maps and slices so derived specs never alias
// caller-owned values. Scalars and opaque structs are copied by value.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = deepCopyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = deepCopyValue(inner)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

type errNotAString string

func (e errNotAString) Error() string {
	return "spec key " + string(e) + " does not hold a string"
}
