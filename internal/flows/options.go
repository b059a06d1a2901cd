package flows

import "github.com/Matgenix/abiflows/internal/execspec"

// Options are the construction parameters shared by every builder.
type Options struct {
	// Autoparal requests a dry run determining optimal parallelism before
	// the real calculation: containers get the short single-core profile
	// and the autoparal stage sentinel instead of a numeric index.
	Autoparal bool

	// Spec is an optional caller-supplied execution-spec override. It is
	// copied, never aliased.
	Spec execspec.Spec

	// InitializationInfo is stored on every container's spec.
	InitializationInfo map[string]any

	// QueueProfile overrides the short single-core queue profile used for
	// autoparal dry runs and bookkeeping steps.
	QueueProfile *execspec.QueueProfile
}

// profile returns the queue profile for short single-core containers.
func (o Options) profile() execspec.QueueProfile {
	if o.QueueProfile != nil {
		return *o.QueueProfile
	}
	return execspec.ShortSingleCoreProfile()
}

// baseSpec derives the spec every container of the workflow starts from:
// the caller override copied, initialization info injected, and the
// single-core autoparal profile applied when requested.
func (o Options) baseSpec() execspec.Spec {
	spec := o.Spec.Clone().WithInitializationInfo(o.InitializationInfo)
	if o.Autoparal {
		spec = spec.ShortSingleCore(o.profile())
	}
	return spec
}
