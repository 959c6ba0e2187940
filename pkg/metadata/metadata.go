// Package metadata normalizes the free-form "meta" block of a topology node
// into ordered {class, value} entries.
//
// Raw metadata arrives in one of three shapes, depending on how the
// topology was written:
//
//	meta: [{class: loopback, value: 10.0.0.1}, {class: model, value: MX480}]
//	meta: {loopback: 10.0.0.1, model: MX480}
//	meta: null
//
// [Normalize] accepts all of them (including the map[interface{}]interface{}
// values produced by yaml.v2) and [Data.Get] projects the result onto a list
// of recognized keys. The order of the returned entries follows the key list,
// never the input order, so every node of a diagram stacks its label lines
// the same way.
package metadata

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is one metadata line: a semantic class (used as CSS hook and as
// lookup key) and its display value.
type Entry struct {
	Class string `json:"class" yaml:"class"`
	Value string `json:"value" yaml:"value"`
}

// Data holds normalized metadata in input order.
type Data struct {
	entries []Entry
}

// Normalize converts raw metadata into Data. Unknown shapes and entries
// without a class are ignored.
func Normalize(raw any) Data {
	switch v := raw.(type) {
	case nil:
		return Data{}
	case Data:
		return v
	case []Entry:
		return Data{entries: slices.Clone(v)}
	case []any:
		var d Data
		for _, item := range v {
			if e, ok := entryFrom(item); ok {
				d.entries = append(d.entries, e)
			}
		}
		return d
	case map[string]any:
		return fromMap(len(v), func(yield func(string, any)) {
			for k, val := range v {
				yield(k, val)
			}
		})
	case map[any]any:
		return fromMap(len(v), func(yield func(string, any)) {
			for k, val := range v {
				yield(fmt.Sprint(k), val)
			}
		})
	case map[string]string:
		return fromMap(len(v), func(yield func(string, any)) {
			for k, val := range v {
				yield(k, val)
			}
		})
	}
	return Data{}
}

// fromMap builds Data from a map. Map iteration order is random, so
// entries are sorted by class to keep Entries deterministic.
func fromMap(n int, each func(func(string, any))) Data {
	d := Data{entries: make([]Entry, 0, n)}
	each(func(k string, v any) {
		if k == "" {
			return
		}
		d.entries = append(d.entries, Entry{Class: k, Value: stringify(v)})
	})
	slices.SortFunc(d.entries, func(a, b Entry) int { return strings.Compare(a.Class, b.Class) })
	return d
}

func entryFrom(item any) (Entry, bool) {
	var class, value any
	switch m := item.(type) {
	case Entry:
		return m, m.Class != ""
	case map[string]any:
		class, value = m["class"], m["value"]
	case map[any]any:
		class, value = m["class"], m["value"]
	default:
		return Entry{}, false
	}
	if class == nil {
		return Entry{}, false
	}
	e := Entry{Class: stringify(class), Value: stringify(value)}
	return e, e.Class != ""
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// Entries returns a copy of all entries in input order.
func (d Data) Entries() []Entry { return slices.Clone(d.entries) }

// Len returns the number of entries.
func (d Data) Len() int { return len(d.entries) }

// Get returns the entries whose class is in keys, ordered by keys. Several
// entries sharing a class keep their relative input order. A nil or empty
// key list yields no entries.
func (d Data) Get(keys []string) []Entry {
	var out []Entry
	for _, k := range keys {
		for _, e := range d.entries {
			if e.Class == k {
				out = append(out, e)
			}
		}
	}
	return out
}

// Map flattens entries into class -> value. When a class repeats, the
// last value wins.
func Map(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Class] = e.Value
	}
	return m
}
