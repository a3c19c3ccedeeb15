package reconcile

import (
	"fmt"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

// Plan is the full set of changes computed from one share snapshot.
type Plan struct {
	// Relevant holds the relevant dataset names, deduplicated, in input order.
	Relevant  []string `json:"relevant" yaml:"relevant"`
	Conflicts []Change `json:"conflicts" yaml:"conflicts"`
	Stale     []Change `json:"stale" yaml:"stale"`
	Updates   []Change `json:"updates" yaml:"updates"`
	// Unchanged holds auto-created shares that already match the config.
	Unchanged []Change `json:"unchanged" yaml:"unchanged"`
	Creates   []Change `json:"creates" yaml:"creates"`
}

// Stage returns the changes of one stage.
func (p *Plan) Stage(s Stage) []Change {
	switch s {
	case StageConflicts:
		return p.Conflicts
	case StageStale:
		return p.Stale
	case StageUpdates:
		return p.Updates
	case StageCreates:
		return p.Creates
	default:
		return nil
	}
}

// Empty reports whether applying the plan would not touch the appliance.
func (p *Plan) Empty() bool {
	return len(p.Conflicts)+len(p.Stale)+len(p.Updates)+len(p.Creates) == 0
}

// Summary counts changes per stage.
type Summary struct {
	Relevant  int `json:"relevant" yaml:"relevant"`
	Conflicts int `json:"conflicts" yaml:"conflicts"`
	Stale     int `json:"stale" yaml:"stale"`
	Updates   int `json:"updates" yaml:"updates"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Creates   int `json:"creates" yaml:"creates"`
}

// Summary returns the per-stage counts.
func (p *Plan) Summary() Summary {
	return Summary{
		Relevant:  len(p.Relevant),
		Conflicts: len(p.Conflicts),
		Stale:     len(p.Stale),
		Updates:   len(p.Updates),
		Unchanged: len(p.Unchanged),
		Creates:   len(p.Creates),
	}
}

// BuildPlan partitions shares against the relevant datasets and derives the
// desired state of every relevant one with gen. Shares keep their snapshot
// order inside each stage; creates follow dataset order.
//
// Shares that are neither auto-created nor relevant are left out entirely.
func BuildPlan(relevant []string, shares []share.Share, gen *share.Generator) (*Plan, error) {
	prefix := gen.MountPrefix()

	plan := &Plan{Relevant: make([]string, 0, len(relevant))}
	relevantSet := make(map[string]struct{}, len(relevant))
	for _, name := range relevant {
		if _, dup := relevantSet[name]; dup {
			continue
		}
		relevantSet[name] = struct{}{}
		plan.Relevant = append(plan.Relevant, name)
	}

	var relevantAuto []*share.Share
	for i := range shares {
		s := &shares[i]
		pathName := s.PathName(prefix)
		_, isRelevant := relevantSet[pathName]

		switch {
		case s.IsAutoCreated() && isRelevant:
			relevantAuto = append(relevantAuto, s)
		case s.IsAutoCreated():
			plan.Stale = append(plan.Stale, Change{Stage: StageStale, PathName: pathName, Actual: s})
		case isRelevant:
			plan.Conflicts = append(plan.Conflicts, Change{Stage: StageConflicts, PathName: pathName, Actual: s})
		}
	}

	if err := plan.planUpdates(relevantAuto, gen); err != nil {
		return nil, err
	}
	if err := plan.planCreates(relevantAuto, gen); err != nil {
		return nil, err
	}
	return plan, nil
}

// planUpdates regenerates every relevant auto-created share and pairs it with
// its actual record by path name.
func (p *Plan) planUpdates(relevantAuto []*share.Share, gen *share.Generator) error {
	prefix := gen.MountPrefix()

	actualByName := make(map[string]*share.Share, len(relevantAuto))
	for _, s := range relevantAuto {
		name := s.PathName(prefix)
		if prev, dup := actualByName[name]; dup {
			return fmt.Errorf("%w: shares %d and %d both export %q",
				ErrInconsistentState, prev.ID, s.ID, name)
		}
		actualByName[name] = s
	}

	for _, s := range relevantAuto {
		name := s.PathName(prefix)
		desired, err := gen.Build(name)
		if err != nil {
			return err
		}

		actual, ok := actualByName[desired.PathName(prefix)]
		if !ok {
			return fmt.Errorf("%w: no share matches desired share %q", ErrInconsistentState, name)
		}
		desired.ID = actual.ID

		change := Change{Stage: StageUpdates, PathName: name, Actual: actual, Desired: desired}
		if share.Equal(actual, desired) {
			p.Unchanged = append(p.Unchanged, change)
			continue
		}
		change.Diff = share.Diff(actual, desired)
		p.Updates = append(p.Updates, change)
	}
	return nil
}

// planCreates builds a share for every relevant dataset that no auto-created
// share exports yet.
func (p *Plan) planCreates(relevantAuto []*share.Share, gen *share.Generator) error {
	existing := make(map[string]struct{}, len(relevantAuto))
	for _, s := range relevantAuto {
		existing[s.PathName(gen.MountPrefix())] = struct{}{}
	}

	for _, name := range p.Relevant {
		if _, ok := existing[name]; ok {
			continue
		}
		desired, err := gen.Build(name)
		if err != nil {
			return err
		}
		p.Creates = append(p.Creates, Change{Stage: StageCreates, PathName: name, Desired: desired})
	}
	return nil
}
