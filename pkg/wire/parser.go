// Package wire turns the raw bytes of one request into the few fields the
// dispatcher routes on.
package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrIncomplete = errors.New("incomplete request head")
	ErrMalformed  = errors.New("malformed request head")
)

// DefaultMaxHeaders caps header lines per request.
const DefaultMaxHeaders = 32

// Message is the parsed request head.
type Message struct {
	Method     string
	Target     string // raw request-target, still percent-encoded
	BodyOffset int    // index in the input where the body starts
	// ContentLength is the declared body length; 0 when absent, -1 when unknown.
	ContentLength int64
	Headers       http.Header
}

// Parser is the message-parsing collaborator used by the dispatcher.
type Parser interface {
	Parse(data []byte) (Message, error)
}

// HTTP1 parses an HTTP/1.x request head. Bodies are not read; only their
// starting offset is reported.
type HTTP1 struct {
	MaxHeaders int
}

func (p HTTP1) Parse(data []byte) (Message, error) {
	src := bytes.NewReader(data)
	br := bufio.NewReader(src)
	req, err := http.ReadRequest(br)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, ErrIncomplete
		}
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	max := p.MaxHeaders
	if max <= 0 {
		max = DefaultMaxHeaders
	}
	// ReadRequest moves Host out of the header map; put it back so callers
	// and the cap both see it.
	h := req.Header.Clone()
	if req.Host != "" {
		h.Set("Host", req.Host)
	}
	n := 0
	for _, vs := range h {
		n += len(vs)
	}
	if n > max {
		return Message{}, fmt.Errorf("%w: %d headers exceeds %d", ErrMalformed, n, max)
	}

	return Message{
		Method:        req.Method,
		Target:        req.RequestURI,
		BodyOffset:    len(data) - src.Len() - br.Buffered(),
		ContentLength: req.ContentLength,
		Headers:       h,
	}, nil
}
