package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

func TestTags(t *testing.T) {
	t.Run("zero value is empty", func(t *testing.T) {
		var tags events.Tags
		assert.Zero(t, tags.Len())
		_, ok := tags.Get("x")
		assert.False(t, ok)
		assert.Empty(t, tags.Keys())
		assert.True(t, tags.Equal(events.NewTags()))
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		tags := events.NewTags("b", "1", "a", "2")
		assert.Equal(t, []string{"b", "a"}, tags.Keys())
		assert.Equal(t, map[string]string{"a": "2", "b": "1"}, tags.Map())
	})

	t.Run("from map sorts keys", func(t *testing.T) {
		tags := events.TagsFromMap(map[string]string{"z": "1", "a": "2", "m": "3"})
		assert.Equal(t, []string{"a", "m", "z"}, tags.Keys())
	})

	t.Run("with copies", func(t *testing.T) {
		base := events.NewTags("a", "1")
		next := base.With("b", "2")
		assert.Equal(t, 1, base.Len())
		assert.Equal(t, 2, next.Len())

		replaced := next.With("a", "9")
		v, _ := replaced.Get("a")
		assert.Equal(t, "9", v)
		assert.Equal(t, []string{"a", "b"}, replaced.Keys())
	})

	t.Run("merge", func(t *testing.T) {
		merged := events.NewTags("a", "1", "b", "2").Merge(events.NewTags("b", "3", "c", "4"))
		assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
		v, _ := merged.Get("b")
		assert.Equal(t, "3", v)
	})

	t.Run("equal is order sensitive", func(t *testing.T) {
		assert.True(t, events.NewTags("a", "1", "b", "2").Equal(events.NewTags("a", "1", "b", "2")))
		assert.False(t, events.NewTags("a", "1", "b", "2").Equal(events.NewTags("b", "2", "a", "1")))
		assert.False(t, events.NewTags("a", "1").Equal(events.NewTags("a", "2")))
	})

	t.Run("odd arguments panic", func(t *testing.T) {
		assert.Panics(t, func() { events.NewTags("lonely") })
	})
}
