package models

import (
	"encoding/json"
	"fmt"
)

// Flavors is an insertion-ordered set of free-text tasting tags.
// Tags compare by exact text; the zero value is an empty set.
type Flavors []string

// NewFlavors constructs a Flavors set, rejecting empty or repeated tags.
func NewFlavors(tags ...string) (Flavors, error) {
	seen := make(map[string]struct{}, len(tags))
	out := make(Flavors, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			return nil, fmt.Errorf("flavor tag must not be empty")
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("flavor %q listed more than once", t)
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// DecodeFlavors builds a set from stored tags, keeping the first occurrence of each
// tag and dropping empty ones.
func DecodeFlavors(tags []string) Flavors {
	seen := make(map[string]struct{}, len(tags))
	out := make(Flavors, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Contains reports whether tag is in the set.
func (f Flavors) Contains(tag string) bool {
	for _, t := range f {
		if t == tag {
			return true
		}
	}
	return false
}

// Unique reports whether the set holds no repeated or empty tags.
func (f Flavors) Unique() bool {
	return len(DecodeFlavors(f)) == len(f)
}

// MarshalJSON always encodes an array, never null.
func (f Flavors) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

// UnmarshalJSON decodes a tag array, dropping duplicates.
func (f *Flavors) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*f = DecodeFlavors(tags)
	return nil
}
