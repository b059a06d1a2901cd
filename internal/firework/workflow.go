package firework

import (
	"fmt"
	"sort"
)

// Workflow is an owned, acyclic set of execution containers plus a
// precedence relation and a metadata mapping identifying the builder that
// produced it. Containers are kept in insertion order, which is creation
// order for the stock builders.
type Workflow struct {
	Name     string
	Metadata map[string]any

	fireworks []*Firework
	links     map[*Firework][]*Firework
	launches  map[*Firework][]Launch
}

// NewWorkflow validates and assembles a workflow graph. Every link
// endpoint must be one of the given containers and the precedence relation
// must be acyclic.
func NewWorkflow(name string, fws []*Firework, links map[*Firework][]*Firework, metadata map[string]any) (*Workflow, error) {
	if len(fws) == 0 {
		return nil, fmt.Errorf("workflow %q has no containers", name)
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	known := make(map[*Firework]bool, len(fws))
	for _, fw := range fws {
		if known[fw] {
			return nil, fmt.Errorf("workflow %q lists container %q twice", name, fw.Name)
		}
		known[fw] = true
	}

	owned := make(map[*Firework][]*Firework, len(links))
	for from, tos := range links {
		if !known[from] {
			return nil, fmt.Errorf("workflow %q links from unknown container %q", name, from.Name)
		}
		for _, to := range tos {
			if !known[to] {
				return nil, fmt.Errorf("workflow %q links to unknown container %q", name, to.Name)
			}
			if from == to {
				return nil, fmt.Errorf("workflow %q has a self-referential link on %q", name, from.Name)
			}
		}
		owned[from] = append([]*Firework(nil), tos...)
	}

	wf := &Workflow{
		Name:      name,
		Metadata:  metadata,
		fireworks: append([]*Firework(nil), fws...),
		links:     owned,
		launches:  make(map[*Firework][]Launch),
	}
	if err := wf.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating workflow %q: %w", name, err)
	}
	return wf, nil
}

// Fireworks returns the containers in insertion order.
func (wf *Workflow) Fireworks() []*Firework {
	return append([]*Firework(nil), wf.fireworks...)
}

// Children returns the direct successors of a container.
func (wf *Workflow) Children(fw *Firework) []*Firework {
	return append([]*Firework(nil), wf.links[fw]...)
}

// Leaves returns the containers with no successors, in insertion order.
func (wf *Workflow) Leaves() []*Firework {
	var leaves []*Firework
	for _, fw := range wf.fireworks {
		if len(wf.links[fw]) == 0 {
			leaves = append(leaves, fw)
		}
	}
	return leaves
}

// Append inserts fw as the new terminal container, rewiring all current
// leaves as its predecessors. This is the only mutation permitted on a
// constructed graph.
func (wf *Workflow) Append(fw *Firework) {
	leaves := wf.Leaves()
	wf.fireworks = append(wf.fireworks, fw)
	for _, leaf := range leaves {
		wf.links[leaf] = append(wf.links[leaf], fw)
	}
}

// SetLaunches replaces the recorded launch attempts for a container.
func (wf *Workflow) SetLaunches(fw *Firework, launches ...Launch) {
	wf.launches[fw] = append([]Launch(nil), launches...)
}

// Launches returns the launch attempts of a container: archived ones
// first, then active ones, each group in chronological order. This is the
// order in which retrieval picks "the most recent launch" from the back.
func (wf *Workflow) Launches(fw *Firework) []Launch {
	recorded := wf.launches[fw]
	var archived, active []Launch
	for _, l := range recorded {
		if l.Archived {
			archived = append(archived, l)
		} else {
			active = append(active, l)
		}
	}
	chronological := func(ls []Launch) {
		sort.SliceStable(ls, func(i, j int) bool {
			return ls[i].StartedAt.Before(ls[j].StartedAt)
		})
	}
	chronological(archived)
	chronological(active)
	return append(archived, active...)
}

// LastLaunch returns the most recent launch attempt of a container.
func (wf *Workflow) LastLaunch(fw *Firework) (Launch, bool) {
	ordered := wf.Launches(fw)
	if len(ordered) == 0 {
		return Launch{}, false
	}
	return ordered[len(ordered)-1], true
}

// detectCycles checks for circular precedence using depth-first search.
func (wf *Workflow) detectCycles() error {
	visiting := make(map[*Firework]bool)
	visited := make(map[*Firework]bool)

	var visit func(fw *Firework) error
	visit = func(fw *Firework) error {
		visiting[fw] = true
		for _, child := range wf.links[fw] {
			if visiting[child] {
				return fmt.Errorf("cycle detected involving %q", child.Name)
			}
			if !visited[child] {
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		delete(visiting, fw)
		visited[fw] = true
		return nil
	}

	for _, fw := range wf.fireworks {
		if !visited[fw] {
			if err := visit(fw); err != nil {
				return err
			}
		}
	}
	return nil
}
