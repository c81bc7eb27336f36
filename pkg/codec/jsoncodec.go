package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
)

// ErrNoBody is returned when decoding an absent handler input.
var ErrNoBody = errors.New("codec: no body")

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

type jsonStrict struct{}
type jsonLenient struct{}

// JSONStrict rejects unknown fields and trailing content.
var JSONStrict Codec = jsonStrict{}

// JSONLenient ignores unknown fields.
var JSONLenient Codec = jsonLenient{}

func (jsonStrict) Marshal(v any) ([]byte, error) { return marshalJSON(v) }

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// must be EOF
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return core.ContentType }

func (jsonLenient) Marshal(v any) ([]byte, error) { return marshalJSON(v) }

func (jsonLenient) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func (jsonLenient) ContentType() string { return core.ContentType }

func marshalJSON(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode unmarshals a handler input into T.
func Decode[T any](c Codec, in core.Text) (T, error) {
	var out T
	s, ok := in.Get()
	if !ok {
		return out, ErrNoBody
	}
	if err := c.Unmarshal([]byte(s), &out); err != nil {
		return out, err
	}
	return out, nil
}

// Encode marshals v into a response body.
func Encode(c Codec, v any) (core.Text, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return core.None, err
	}
	return core.Some(string(b)), nil
}

// Reply marshals v and wraps it as an immediate outcome. A value that cannot
// be marshalled becomes InternalServerError.
func Reply(c Codec, status core.Status, v any) core.Outcome {
	body, err := Encode(c, v)
	if err != nil {
		return core.Immediate(core.StatusInternalServerError, core.None)
	}
	return core.Immediate(status, body)
}
