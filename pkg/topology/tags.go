package topology

import (
	"encoding/json"
	"fmt"
)

// Tags is a list of group tags. In input files it may be written as a single
// string or as a list; both decode to a list.
type Tags []string

// TagsOf normalizes a dynamically typed group value: a string becomes a
// one-element list, nil becomes an empty list and lists pass through.
func TagsOf(v any) Tags {
	switch g := v.(type) {
	case nil:
		return Tags{}
	case string:
		return Tags{g}
	case Tags:
		return g
	case []string:
		return Tags(g)
	case []any:
		out := make(Tags, 0, len(g))
		for _, item := range g {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return Tags{fmt.Sprint(g)}
	}
}

// UnmarshalJSON accepts a string, a list of strings or null.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, string, []any:
		*t = TagsOf(raw)
		return nil
	}
	return fmt.Errorf("group must be a string or a list, got %s", data)
}

// UnmarshalYAML accepts a scalar, a sequence or null.
func (t *Tags) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, []any:
		*t = TagsOf(raw)
	case map[any]any:
		return fmt.Errorf("group must be a string or a list")
	default:
		*t = Tags{fmt.Sprint(raw)}
	}
	return nil
}
