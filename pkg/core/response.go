package core

import (
	"io"
	"strconv"
	"strings"
)

// ContentType is sent with every response.
const ContentType = "application/json; charset=utf-8"

// renderResponse builds the full wire response for status and body.
func renderResponse(status Status, body Text) string {
	payload := body.Or("")
	var b strings.Builder
	b.Grow(len(payload) + 128)
	b.WriteString(status.StatusLine())
	b.WriteString("\r\nContent-Length: ")
	b.WriteString(strconv.Itoa(len(payload)))
	b.WriteString("\r\nContent-type: ")
	b.WriteString(ContentType)
	b.WriteString("\r\n\r\n")
	b.WriteString(payload)
	return b.String()
}

// writeResponse sends the framed response and flushes w when it buffers.
// There is no retry; on error the caller drops the connection.
func writeResponse(w io.Writer, status Status, body Text) (int, error) {
	n, err := io.WriteString(w, renderResponse(status, body))
	if err != nil {
		return n, err
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}
