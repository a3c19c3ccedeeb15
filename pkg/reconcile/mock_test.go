package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/marmos91/recursive-nfs/pkg/progress"
	"github.com/marmos91/recursive-nfs/pkg/share"
)

// mockGateway is a testify mock of Gateway that also records call order.
type mockGateway struct {
	mock.Mock
	calls []string
}

func (m *mockGateway) CreateShare(ctx context.Context, req *share.ShareRequest) (*share.Share, error) {
	m.calls = append(m.calls, "create "+req.Path)
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*share.Share)
	return s, args.Error(1)
}

func (m *mockGateway) UpdateShare(ctx context.Context, id int, req *share.ShareRequest) (*share.Share, error) {
	m.calls = append(m.calls, "update "+req.Path)
	args := m.Called(ctx, id, req)
	s, _ := args.Get(0).(*share.Share)
	return s, args.Error(1)
}

func (m *mockGateway) DeleteShare(ctx context.Context, id int) error {
	m.calls = append(m.calls, "delete")
	return m.Called(ctx, id).Error(0)
}

// scriptedConfirmer answers per stage and records every question.
type scriptedConfirmer struct {
	answers   map[Stage]bool
	err       error
	questions []Question
}

func (c *scriptedConfirmer) Confirm(_ context.Context, q Question) (bool, error) {
	c.questions = append(c.questions, q)
	if c.err != nil {
		return false, c.err
	}
	if answer, ok := c.answers[q.Stage]; ok {
		return answer, nil
	}
	return q.DefaultYes, nil
}

func (c *scriptedConfirmer) asked() []Stage {
	stages := make([]Stage, 0, len(c.questions))
	for _, q := range c.questions {
		stages = append(stages, q.Stage)
	}
	return stages
}

type recordingView struct {
	shown map[Stage]int
}

func (v *recordingView) ShowStage(stage Stage, changes []Change) {
	if v.shown == nil {
		v.shown = make(map[Stage]int)
	}
	v.shown[stage] = len(changes)
}

// recordingReporter captures progress events as plain strings.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) Start(label string) progress.Operation {
	r.events = append(r.events, "start "+label)
	return &recordingOperation{r: r}
}

type recordingOperation struct{ r *recordingReporter }

func (o *recordingOperation) Update(label string) { o.r.events = append(o.r.events, "update "+label) }
func (o *recordingOperation) Succeed(msg string)  { o.r.events = append(o.r.events, "ok "+msg) }
func (o *recordingOperation) Fail(msg string)     { o.r.events = append(o.r.events, "fail "+msg) }

type fakeMetrics struct {
	mu       sync.Mutex
	planned  map[string]int
	outcomes map[string]int
	result   string
	flushed  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{planned: map[string]int{}, outcomes: map[string]int{}}
}

func (f *fakeMetrics) RecordPlanned(stage string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planned[stage] = count
}

func (f *fakeMetrics) RecordOperation(stage, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[stage+"/"+outcome]++
}

func (f *fakeMetrics) RecordRun(result string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
}

func (f *fakeMetrics) Flush() error {
	f.flushed++
	return nil
}
