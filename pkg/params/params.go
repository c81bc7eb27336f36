// Package params splits the parameter text handed to GET handlers.
package params

import (
	"strings"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
)

// Values maps parameter names to their values. A name given without a value,
// or with an empty one, maps to core.None.
type Values map[string]core.Text

// Parse splits s on '&' and each pair on the first '='. s has already been
// percent-decoded by the router, so no further decoding happens here. Later
// pairs overwrite earlier ones.
func Parse(s string) Values {
	out := Values{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if v == "" {
			out[k] = core.None
			continue
		}
		out[k] = core.Some(v)
	}
	return out
}

// FromInput parses a handler input. An absent input yields an empty set.
func FromInput(in core.Text) Values {
	s, ok := in.Get()
	if !ok {
		return Values{}
	}
	return Parse(s)
}

// Get returns the value for k, or core.None.
func (v Values) Get(k string) core.Text { return v[k] }

// Has reports whether k appeared at all, with or without a value.
func (v Values) Has(k string) bool {
	_, ok := v[k]
	return ok
}
