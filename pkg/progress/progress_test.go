package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole(t *testing.T) {
	t.Run("SuccessFlow", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConsole(&buf, false)

		op := c.Start("Creating 2 shares...")
		op.Update("Creating share tank/a (2 remaining)...")
		op.Update("Creating share tank/a (2 remaining)...")
		op.Succeed("Created 2 shares")
		op.Fail("ignored after finish")

		assert.Equal(t,
			"> Creating 2 shares...\n"+
				"  Creating share tank/a (2 remaining)...\n"+
				"✔ Created 2 shares\n",
			buf.String())
	})

	t.Run("FailWithoutMessageUsesLabel", func(t *testing.T) {
		var buf bytes.Buffer
		op := NewConsole(&buf, false).Start("Removing 1 share")
		op.Fail("")

		assert.Contains(t, buf.String(), "✖ Removing 1 share\n")
	})
}

type recorder struct {
	events []string
}

func (r *recorder) Start(label string) Operation {
	r.events = append(r.events, "start:"+label)
	return r
}
func (r *recorder) Update(label string) { r.events = append(r.events, "update:"+label) }
func (r *recorder) Succeed(msg string)  { r.events = append(r.events, "succeed:"+msg) }
func (r *recorder) Fail(msg string)     { r.events = append(r.events, "fail:"+msg) }

func TestTrack(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := &recorder{}
		err := Track(r, "Loading", "Loaded", func(op Operation) error {
			op.Update("Loading more")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"start:Loading", "update:Loading more", "succeed:Loaded"}, r.events)
	})

	t.Run("Failure", func(t *testing.T) {
		r := &recorder{}
		boom := errors.New("boom")
		err := Track(r, "Loading", "Loaded", func(Operation) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"start:Loading", "fail:boom"}, r.events)
	})

	t.Run("NilReporter", func(t *testing.T) {
		called := false
		require.NoError(t, Track(nil, "x", "y", func(Operation) error { called = true; return nil }))
		assert.True(t, called)
	})
}
