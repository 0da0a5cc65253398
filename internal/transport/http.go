package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"
)

// HTTP is a Transport over net/http. It owns no connection policy beyond the
// client's timeout.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTP returns an HTTP transport rooted at baseURL (for example
// "http://localhost:8983/solr").
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Do implements Transport.
func (h *HTTP) Do(req *Request) (*Response, error) {
	u := h.url(req.Path)
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := oj.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	hreq, err := http.NewRequest(method(req.Method), u, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		hreq.Header.Set("content-type", "application/json")
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("content-type"),
		Body:        data,
	}, nil
}

// url joins the base URL and a relative path without collapsing the scheme's
// double slash.
func (h *HTTP) url(path string) string {
	base := strings.TrimRight(h.BaseURL, "/")
	path = BuildPath(path)
	if path == "" {
		return base
	}
	return base + "/" + path
}
