package transport

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/ohler55/ojg/oj"
)

// ErrConnection is returned by Fake routes registered with Fail.
var ErrConnection = errors.New("connection refused")

// Handler answers one request on a Fake route.
type Handler func(req *Request) (*Response, error)

// Fake is a scripted in-memory Transport. Routes are keyed by method and path;
// unrouted requests get a 404 text/plain response. Every request is recorded.
type Fake struct {
	mu       sync.Mutex
	routes   map[string]Handler
	prefixes map[string]Handler
	calls    []Request
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{routes: make(map[string]Handler), prefixes: make(map[string]Handler)}
}

// Handle registers h for method and path, replacing any previous route.
func (f *Fake) Handle(method, path string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[routeKey(method, path)] = h
}

// HandlePrefix registers h for every path under prefix that has no exact
// route. The longest matching prefix wins.
func (f *Fake) HandlePrefix(method, prefix string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes[routeKey(method, prefix)] = h
}

// JSON registers a route that always answers with v encoded as JSON.
func (f *Fake) JSON(method, path string, v any) {
	f.Handle(method, path, func(*Request) (*Response, error) {
		return JSONResponse(v), nil
	})
}

// Raw registers a route that always answers with the given payload.
func (f *Fake) Raw(method, path string, status int, contentType string, body []byte) {
	f.Handle(method, path, func(*Request) (*Response, error) {
		return &Response{StatusCode: status, ContentType: contentType, Body: body}, nil
	})
}

// Fail registers a route that simulates a connection failure.
func (f *Fake) Fail(method, path string) {
	f.Handle(method, path, func(*Request) (*Response, error) {
		return nil, ErrConnection
	})
}

// Do implements Transport.
func (f *Fake) Do(req *Request) (*Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *req)
	key := routeKey(req.Method, req.Path)
	h, ok := f.routes[key]
	if !ok {
		h, ok = f.matchPrefix(key)
	}
	f.mu.Unlock()

	if !ok {
		return &Response{StatusCode: http.StatusNotFound, ContentType: "text/plain", Body: []byte("not found")}, nil
	}
	return h(req)
}

func (f *Fake) matchPrefix(key string) (Handler, bool) {
	var (
		best    Handler
		bestLen = -1
	)
	for prefix, h := range f.prefixes {
		if len(prefix) > bestLen && (key == prefix || strings.HasPrefix(key, prefix+"/")) {
			best, bestLen = h, len(prefix)
		}
	}
	return best, best != nil
}

// Calls returns a copy of every recorded request, oldest first.
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}

// Find returns the recorded requests for method and path.
func (f *Fake) Find(method, path string) []Request {
	key := routeKey(method, path)
	var out []Request
	for _, c := range f.Calls() {
		if routeKey(c.Method, c.Path) == key {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many requests were recorded for method and path.
func (f *Fake) Count(method, path string) int {
	return len(f.Find(method, path))
}

// Reset forgets recorded requests. Routes are kept.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// JSONResponse encodes v as a 200 application/json response.
func JSONResponse(v any) *Response {
	data, err := oj.Marshal(v)
	if err != nil {
		return &Response{StatusCode: http.StatusInternalServerError, ContentType: "text/plain", Body: []byte(err.Error())}
	}
	return &Response{
		StatusCode:  http.StatusOK,
		ContentType: "application/json;charset=utf-8",
		Body:        data,
	}
}

func routeKey(m, path string) string {
	return method(m) + " " + BuildPath(path)
}
