// Package reconcile brings the NFS shares of an appliance in line with the
// set of relevant datasets.
//
// A run builds a Plan from one snapshot of the appliance's shares and then
// applies it in four stages, always in this order:
//
//  1. conflicts: manual shares exporting a relevant dataset (optional delete)
//  2. stale: auto-created shares whose dataset is no longer relevant
//  3. updates: auto-created shares whose settings drifted from the config
//  4. creates: relevant datasets without an auto-created share
//
// Every stage asks for confirmation before mutating anything and stops at the
// first failed appliance call.
package reconcile

import (
	"context"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

// Stage names one reconciliation step.
type Stage string

const (
	StageConflicts Stage = "conflicts"
	StageStale     Stage = "stale"
	StageUpdates   Stage = "updates"
	StageCreates   Stage = "creates"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageConflicts, StageStale, StageUpdates, StageCreates}

func (s Stage) String() string { return string(s) }

// Deletes reports whether the stage removes shares.
func (s Stage) Deletes() bool {
	return s == StageConflicts || s == StageStale
}

// Change is one planned operation on one share.
type Change struct {
	Stage    Stage        `json:"stage" yaml:"stage"`
	PathName string       `json:"path_name" yaml:"path_name"`
	Actual   *share.Share `json:"actual,omitempty" yaml:"actual,omitempty"`
	Desired  *share.Share `json:"desired,omitempty" yaml:"desired,omitempty"`
	// Diff describes the field changes of an update.
	Diff string `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// ShareID returns the id of the existing share, or 0 for creates.
func (c Change) ShareID() int {
	if c.Actual == nil {
		return 0
	}
	return c.Actual.ID
}

// Question is what the engine asks before a stage mutates the appliance.
type Question struct {
	Stage      Stage
	Label      string
	DefaultYes bool
	Count      int
}

// Gateway is the subset of the appliance API the engine mutates through.
type Gateway interface {
	CreateShare(ctx context.Context, req *share.ShareRequest) (*share.Share, error)
	UpdateShare(ctx context.Context, id int, req *share.ShareRequest) (*share.Share, error)
	DeleteShare(ctx context.Context, id int) error
}

// Confirmer answers the engine's questions.
type Confirmer interface {
	Confirm(ctx context.Context, q Question) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, q Question) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, q Question) (bool, error) {
	return f(ctx, q)
}

// AcceptDefaults answers every question with its default.
var AcceptDefaults = ConfirmFunc(func(_ context.Context, q Question) (bool, error) {
	return q.DefaultYes, nil
})

// View presents a stage's changes before its question is asked.
type View interface {
	ShowStage(stage Stage, changes []Change)
}
