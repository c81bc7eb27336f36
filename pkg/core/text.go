package core

import "encoding/json"

// Text is an optional string payload: a handler input or a response body.
// The zero value is absent, which is distinct from a present empty string.
type Text struct {
	Value string
	Valid bool
}

// None is the absent Text.
var None = Text{}

// Some wraps s as a present Text.
func Some(s string) Text { return Text{Value: s, Valid: true} }

// Get returns the value and whether it is present.
func (t Text) Get() (string, bool) { return t.Value, t.Valid }

// Or returns the value when present, otherwise def.
func (t Text) Or(def string) string {
	if t.Valid {
		return t.Value
	}
	return def
}

// MarshalJSON encodes an absent Text as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (t *Text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = None
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = Some(s)
	return nil
}
