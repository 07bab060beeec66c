package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tags is an ordered, read-only string mapping attached to step events.
// The zero value is an empty mapping.
type Tags struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewTags builds Tags from alternating keys and values, keeping the order
// given. A repeated key keeps its first position and its last value.
// Panics if kv has an odd length.
func NewTags(kv ...string) Tags {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("events: NewTags called with odd number of arguments (%d)", len(kv)))
	}
	if len(kv) == 0 {
		return Tags{}
	}
	m := orderedmap.New[string, string]()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return Tags{m: m}
}

// TagsFromMap builds Tags from a Go map with keys in sorted order.
func TagsFromMap(src map[string]string) Tags {
	keys := lo.Keys(src)
	slices.Sort(keys)
	kv := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, src[k])
	}
	return NewTags(kv...)
}

// Len returns the number of tags.
func (t Tags) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Get returns the value for key.
func (t Tags) Get(key string) (string, bool) {
	if t.m == nil {
		return "", false
	}
	return t.m.Get(key)
}

// Each calls fn for every tag in order until fn returns false.
func (t Tags) Each(fn func(key, value string) bool) {
	if t.m == nil {
		return
	}
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Keys returns the tag keys in order.
func (t Tags) Keys() []string {
	keys := make([]string, 0, t.Len())
	t.Each(func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Map returns a copy of the tags as a Go map.
func (t Tags) Map() map[string]string {
	out := make(map[string]string, t.Len())
	t.Each(func(k, v string) bool {
		out[k] = v
		return true
	})
	return out
}

// With returns a copy of t with key set to value.
func (t Tags) With(key, value string) Tags {
	kv := make([]string, 0, 2*(t.Len()+1))
	t.Each(func(k, v string) bool {
		kv = append(kv, k, v)
		return true
	})
	return NewTags(append(kv, key, value)...)
}

// Merge returns a copy of t with every tag of other applied on top.
func (t Tags) Merge(other Tags) Tags {
	out := t
	other.Each(func(k, v string) bool {
		out = out.With(k, v)
		return true
	})
	return out
}

// Equal reports whether both mappings hold the same pairs in the same order.
func (t Tags) Equal(other Tags) bool {
	if t.Len() != other.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	a, b := t.m.Oldest(), other.m.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
	}
	return a == nil && b == nil
}

// MarshalJSON encodes the tags as a JSON object preserving order.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t.m == nil {
		return []byte("{}"), nil
	}
	return t.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (t *Tags) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Tags{}
		return nil
	}
	m := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	if m.Len() == 0 {
		*t = Tags{}
		return nil
	}
	*t = Tags{m: m}
	return nil
}
