// Package transport is the boundary between the caching admin client and the
// wire. It issues a single HTTP call per request and hands back raw bytes; the
// JSON helper layers Solr's "wt=json" convention on top and degrades every
// failure to an empty mapping so callers never see transport errors.
package transport

import (
	"log"
	"net/url"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Request describes one call against the admin API. Path is relative to the
// transport's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON encoded when non-nil.
	Body any
}

// Response is the raw result of a completed call.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declares a JSON content type.
func (r *Response) IsJSON() bool {
	return r != nil && strings.Contains(r.ContentType, "application/json")
}

// Transport performs a request. A non-nil error means the call could not be
// completed (connection refused, timeout); HTTP error statuses are returned as
// regular responses.
type Transport interface {
	Do(req *Request) (*Response, error)
}

// JSON issues req with wt=json and decodes the body. Connection failures,
// non-JSON content types and malformed payloads all yield an empty mapping.
func JSON(t Transport, req *Request) any {
	q := url.Values{}
	for k, v := range req.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("wt", "json")

	r := *req
	r.Query = q

	resp, err := t.Do(&r)
	if err != nil {
		log.Printf("transport: %s %s: %v", method(r.Method), r.Path, err)
		return map[string]any{}
	}
	if !resp.IsJSON() {
		return map[string]any{}
	}

	v, err := oj.Parse(resp.Body)
	if err != nil {
		log.Printf("transport: %s %s: decode: %v", method(r.Method), r.Path, err)
		return map[string]any{}
	}
	if v == nil {
		return map[string]any{}
	}
	return v
}

// AsMap returns v as a mapping, or an empty mapping when it is anything else.
func AsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// AsSlice returns v as a sequence, or nil when it is anything else.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// BuildPath joins URL path segments with "/", trimming slashes from each and
// skipping empty segments. BuildPath("/", "a/", "/b") == "a/b".
func BuildPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func method(m string) string {
	if m == "" {
		return "GET"
	}
	return strings.ToUpper(m)
}
