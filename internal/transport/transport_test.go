package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPath(t *testing.T) {
	assert.Equal(t, "a/b", BuildPath("/", "a/", "/b"))
	assert.Equal(t, "demo/schema", BuildPath("demo", "schema"))
	assert.Equal(t, "demo", BuildPath("demo", ""))
	assert.Equal(t, "", BuildPath("/", ""))
	assert.Equal(t, "demo/schema/analysis/synonyms/x", BuildPath("demo", "/schema/analysis/synonyms/x"))
}

func TestHTTPJSON(t *testing.T) {
	var gotQuery, gotMethod, gotPath, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("wt")
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("content-type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("content-type", "application/json;charset=utf-8")
		_, _ = w.Write([]byte(`{"responseHeader":{"status":0},"schema":{"name":"demo"}}`))
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL+"/solr/", time.Second)
	v := JSON(h, &Request{Method: "post", Path: "demo/schema", Body: map[string]any{"add-field": map[string]any{"name": "f"}}})

	m := AsMap(v)
	require.Contains(t, m, "schema")
	assert.Equal(t, "demo", AsMap(m["schema"])["name"])
	assert.Equal(t, "json", gotQuery)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/solr/demo/schema", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"add-field":{"name":"f"}}`, gotBody)
}

func TestJSONNonJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/xml")
		_, _ = w.Write([]byte(`<response/>`))
	}))
	defer srv.Close()

	v := JSON(NewHTTP(srv.URL, time.Second), &Request{Path: "admin/cores"})
	assert.Equal(t, map[string]any{}, v)
}

func TestJSONMalformedBody(t *testing.T) {
	f := NewFake()
	f.Raw("GET", "admin/cores", 200, "application/json", []byte(`{"status":`))

	assert.Equal(t, map[string]any{}, JSON(f, &Request{Path: "admin/cores"}))
}

func TestJSONConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := JSON(NewHTTP(url, time.Second), &Request{Path: "admin/info/system"})
	assert.Equal(t, map[string]any{}, v)
}

func TestJSONKeepsCallerQuery(t *testing.T) {
	f := NewFake()
	f.JSON("GET", "admin/cores", map[string]any{"ok": true})

	req := &Request{Path: "admin/cores"}
	req.Query = map[string][]string{"action": {"STATUS"}}
	JSON(f, req)

	calls := f.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "STATUS", calls[0].Query.Get("action"))
	assert.Equal(t, "json", calls[0].Query.Get("wt"))
	// the caller's request is not mutated
	assert.Empty(t, req.Query.Get("wt"))
}

func TestFake(t *testing.T) {
	f := NewFake()
	f.JSON("GET", "/a/", []any{"x"})
	f.Fail("DELETE", "a")

	resp, err := f.Do(&Request{Path: "a"})
	require.NoError(t, err)
	assert.True(t, resp.IsJSON())

	_, err = f.Do(&Request{Method: "delete", Path: "a"})
	assert.ErrorIs(t, err, ErrConnection)

	resp, err = f.Do(&Request{Method: "PUT", Path: "missing"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 1, f.Count("GET", "a"))
	assert.Equal(t, 1, f.Count("DELETE", "a"))
	assert.Len(t, f.Calls(), 3)

	f.Reset()
	assert.Empty(t, f.Calls())
}

func TestAsConversions(t *testing.T) {
	assert.Equal(t, map[string]any{}, AsMap([]any{1}))
	assert.Nil(t, AsSlice(map[string]any{}))
	assert.Equal(t, []any{1}, AsSlice([]any{1}))
}

func TestFakePrefix(t *testing.T) {
	f := NewFake()
	f.HandlePrefix("GET", "demo/schema", func(*Request) (*Response, error) {
		return JSONResponse(map[string]any{"route": "schema"}), nil
	})
	f.HandlePrefix("GET", "demo/schema/analysis", func(*Request) (*Response, error) {
		return JSONResponse(map[string]any{"route": "analysis"}), nil
	})
	f.JSON("GET", "demo/schema/managed", map[string]any{"route": "managed"})

	route := func(path string) any {
		return AsMap(JSON(f, &Request{Path: path}))["route"]
	}
	assert.Equal(t, "analysis", route("demo/schema/analysis/synonyms/en"))
	assert.Equal(t, "managed", route("demo/schema/managed"))
	assert.Equal(t, "schema", route("demo/schema/fields"))
	assert.Equal(t, "schema", route("demo/schema"))
	assert.Nil(t, route("demo/schemas"))
}
