package webclient

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Request describes a bodiless request; only GET is issued in practice.
type Request struct {
	Method string
	URL    string
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}

// ContentType returns the Content-Type header, or "" if none was sent.
func (r *Response) ContentType() string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get("Content-Type")
}

// Text decodes Body into a UTF-8 string. The encoding comes from the
// Content-Type charset when present, then from a BOM or <meta> declaration,
// and otherwise defaults to UTF-8 for valid UTF-8 input and windows-1252 for
// anything else. The UTF-8 check covers the whole body, not just the
// sniffed prefix.
func (r *Response) Text() (string, error) {
	if r == nil {
		return "", fmt.Errorf("decode body: nil response")
	}
	if len(r.Body) == 0 {
		return "", nil
	}

	e, _ := r.determineEncoding()
	if e == encoding.Nop {
		return string(r.Body), nil
	}
	text, err := e.NewDecoder().Bytes(r.Body)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(text), nil
}

// Encoding reports the name of the encoding Text would use.
func (r *Response) Encoding() string {
	if r == nil {
		return ""
	}
	_, name := r.determineEncoding()
	return name
}

// determineEncoding wraps charset.DetermineEncoding, which only sniffs the
// first 1024 bytes. An uncertain windows-1252 guess is replaced by UTF-8
// when the full body is valid UTF-8.
func (r *Response) determineEncoding() (encoding.Encoding, string) {
	e, name, certain := charset.DetermineEncoding(r.Body, r.ContentType())
	if !certain && name == "windows-1252" && utf8.Valid(r.Body) {
		return encoding.Nop, "utf-8"
	}
	return e, name
}
