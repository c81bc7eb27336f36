package core

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/joeydtaylor/steeze-dispatch/pkg/wire"
)

// Request is the routed form of one connection's input.
type Request struct {
	Verb  Verb
	Name  string
	Input Text
}

// route turns the first n bytes of buf into a Request. Every error it returns
// is a client error answered with StatusBadRequest.
func route(p wire.Parser, buf []byte, n int) (Request, error) {
	if n <= 0 {
		return Request{}, ErrEmptyRequest
	}
	if n > len(buf) {
		return Request{}, fmt.Errorf("%w: read %d bytes into %d byte buffer", ErrBodyRange, n, len(buf))
	}
	msg, err := p.Parse(buf[:n])
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrBadRequestLine, err)
	}

	name, params, err := splitTarget(msg.Target)
	if err != nil {
		return Request{}, err
	}
	req := Request{Verb: Verb(msg.Method), Name: name}

	switch req.Verb {
	case VerbGet:
		req.Input = params
	case VerbPost:
		off := msg.BodyOffset
		if off < 0 || off > n {
			return req, fmt.Errorf("%w: body offset %d beyond %d bytes read", ErrBodyRange, off, n)
		}
		if msg.ContentLength > int64(n-off) {
			return req, fmt.Errorf("%w: declared %d bytes, read %d", ErrBodyRange, msg.ContentLength, n-off)
		}
		body := buf[off:n]
		if !utf8.Valid(body) {
			return req, ErrBodyNotText
		}
		req.Input = Some(string(body))
	default:
		return req, fmt.Errorf("%w: %q", ErrUnsupportedVerb, msg.Method)
	}
	return req, nil
}

// splitTarget decodes the request target, keeps its final '/' segment and cuts
// that at the first '?' into function name and inline parameters.
func splitTarget(target string) (string, Text, error) {
	if target == "" {
		return "", None, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	decoded, err := url.PathUnescape(target)
	if err != nil {
		return "", None, fmt.Errorf("%w: %w", ErrBadPath, err)
	}
	last := decoded[strings.LastIndexByte(decoded, '/')+1:]
	name, params, found := strings.Cut(last, "?")
	if name == "" {
		return "", None, fmt.Errorf("%w: no function name in %q", ErrBadPath, target)
	}
	if !found {
		return name, None, nil
	}
	return name, Some(params), nil
}
