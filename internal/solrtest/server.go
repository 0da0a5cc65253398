// Package solrtest provides an in-memory Solr admin API for tests. It keeps
// core, schema, managed resource and config file state, answers through a
// transport.Fake so requests are recorded, and applies mutations the way the
// real server does.
package solrtest

import (
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/agentic-research/solradmin/internal/transport"
)

// Server is the simulated cluster. The embedded Fake exposes the recorded
// calls.
type Server struct {
	*transport.Fake

	mu        sync.Mutex
	cores     map[string]map[string]any
	schemas   map[string]map[string]any
	resources map[string][]map[string]any
	synonyms  map[string]map[string]any // "<core><resourceId>" -> synonymMappings
	files     map[string]map[string]string
}

// NewServer returns a cluster without cores.
func NewServer() *Server {
	s := &Server{
		Fake:      transport.NewFake(),
		cores:     make(map[string]map[string]any),
		schemas:   make(map[string]map[string]any),
		resources: make(map[string][]map[string]any),
		synonyms:  make(map[string]map[string]any),
		files:     make(map[string]map[string]string),
	}
	s.JSON("GET", "admin/info/system", map[string]any{
		"solr_home": "/var/solr/data",
		"mode":      "std",
		"lucene":    map[string]any{"solr-spec-version": "9.4.0", "lucene-spec-version": "9.8.0"},
		"jvm":       map[string]any{"version": "17.0.9"},
		"system":    map[string]any{"name": "Linux"},
	})
	s.Handle("GET", "admin/cores", s.coreAdmin)
	return s
}

// AddCore registers an existing core, as if created before the client ran.
func (s *Server) AddCore(name, config, schema string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCoreLocked(name, config, schema)
}

// SetFiles replaces a core's config files, keyed by "/"-rooted path.
func (s *Server) SetFiles(core string, files map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]string, len(files))
	for p, c := range files {
		cp[path.Clean("/"+p)] = c
	}
	s.files[core] = cp
}

// SetSchema replaces a core's schema document.
func (s *Server) SetSchema(core string, doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[core] = doc
}

// Schema returns the server's schema document of core.
func (s *Server) Schema(core string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemas[core]
}

// Synonyms returns the server's managed map of a synonym resource.
func (s *Server) Synonyms(core, name string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.synonyms[core+"/schema/analysis/synonyms/"+name]
	if doc == nil {
		return nil
	}
	m, _ := doc["managedMap"].(map[string]any)
	return m
}

// DropCore removes a core behind the client's back.
func (s *Server) DropCore(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cores, name)
}

func (s *Server) addCoreLocked(name, config, schema string) {
	if config == "" {
		config = "solrconfig.xml"
	}
	if schema == "" {
		schema = "managed-schema"
	}
	s.cores[name] = map[string]any{
		"name":        name,
		"instanceDir": "/var/solr/data/" + name,
		"config":      config,
		"schema":      schema,
	}
	if _, ok := s.schemas[name]; !ok {
		s.schemas[name] = map[string]any{
			"name":          name,
			"version":       1.6,
			"uniqueKey":     "id",
			"fields":        []any{map[string]any{"name": "id", "type": "string"}},
			"fieldTypes":    []any{map[string]any{"name": "string", "class": "solr.StrField"}},
			"copyFields":    []any{},
			"dynamicFields": []any{},
		}
	}
	if _, ok := s.files[name]; !ok {
		s.files[name] = map[string]string{
			"/" + config:         "<config/>",
			"/" + schema:         "<schema/>",
			"/lang/stopwords.txt": "a\nthe\n",
		}
	}

	s.Handle("GET", name+"/schema", s.getSchema(name))
	s.Handle("POST", name+"/schema", s.postSchema(name))
	s.Handle("GET", name+"/schema/managed", s.listResources(name))
	s.HandlePrefix("PUT", name+"/schema/analysis", s.putResource(name))
	s.HandlePrefix("GET", name+"/schema/analysis", s.getResource(name))
	s.HandlePrefix("POST", name+"/schema/analysis", s.postResource(name))
	s.HandlePrefix("DELETE", name+"/schema/analysis", s.deleteResource(name))
	s.Handle("GET", name+"/admin/file", s.getFile(name))
}

func ok(v map[string]any) (*transport.Response, error) {
	if v == nil {
		v = map[string]any{}
	}
	v["responseHeader"] = map[string]any{"status": 0}
	return transport.JSONResponse(v), nil
}

func notFound() (*transport.Response, error) {
	return &transport.Response{StatusCode: http.StatusNotFound, ContentType: "text/plain", Body: []byte("not found")}, nil
}

func (s *Server) coreAdmin(req *transport.Request) (*transport.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Query.Get("action") {
	case "STATUS":
		status := make(map[string]any, len(s.cores))
		for k, v := range s.cores {
			status[k] = v
		}
		return ok(map[string]any{"status": status})
	case "CREATE":
		s.addCoreLocked(req.Query.Get("name"), req.Query.Get("config"), req.Query.Get("schema"))
		return ok(map[string]any{"core": req.Query.Get("name")})
	case "RELOAD":
		return ok(nil)
	case "UNLOAD":
		name := req.Query.Get("core")
		delete(s.cores, name)
		delete(s.schemas, name)
		delete(s.files, name)
		delete(s.resources, name)
		return ok(nil)
	}
	return ok(nil)
}

func (s *Server) getSchema(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.cores[core]; !exists {
			return notFound()
		}
		if req.Query.Get("wt") == "schema.xml" {
			return &transport.Response{StatusCode: http.StatusOK, ContentType: "application/xml", Body: []byte(`<schema name="` + core + `"/>`)}, nil
		}
		return ok(map[string]any{"schema": s.schemas[core]})
	}
}

var collections = map[string]string{
	"field":         "fields",
	"field-type":    "fieldTypes",
	"copy-field":    "copyFields",
	"dynamic-field": "dynamicFields",
}

func (s *Server) postSchema(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		body, _ := req.Body.(map[string]any)
		doc := s.schemas[core]
		for command, v := range body {
			action, elementType, found := strings.Cut(command, "-")
			collection, known := collections[elementType]
			el, isMap := v.(map[string]any)
			if !found || !known || !isMap {
				continue
			}
			items, _ := doc[collection].([]any)
			name, _ := el["name"].(string)
			switch action {
			case "add":
				items = append(items, clone(el))
			case "replace":
				for i, it := range items {
					if m, _ := it.(map[string]any); m["name"] == name {
						items[i] = clone(el)
					}
				}
			case "delete":
				kept := items[:0:0]
				for _, it := range items {
					if m, _ := it.(map[string]any); m["name"] != name {
						kept = append(kept, it)
					}
				}
				items = kept
			}
			doc[collection] = items
		}
		return ok(nil)
	}
}

func (s *Server) listResources(core string) transport.Handler {
	return func(*transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := make([]any, 0, len(s.resources[core]))
		for _, r := range s.resources[core] {
			list = append(list, r)
		}
		return ok(map[string]any{"managedResources": list})
	}
}

// resourceOf splits "<core>/schema/analysis/<type>/<name>[/<key>]".
func resourceOf(core, p string) (id, key string) {
	rest := strings.TrimPrefix(transport.BuildPath(p), core)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 4 {
		return "", ""
	}
	id = "/" + strings.Join(parts[:4], "/")
	if len(parts) > 4 {
		key = strings.Join(parts[4:], "/")
		if k, err := url.PathUnescape(key); err == nil {
			key = k
		}
	}
	return id, key
}

func (s *Server) findResource(core, id string) int {
	for i, r := range s.resources[core] {
		if r["resourceId"] == id {
			return i
		}
	}
	return -1
}

func (s *Server) putResource(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := resourceOf(core, req.Path)
		if id == "" {
			return notFound()
		}
		body, _ := req.Body.(map[string]any)

		if s.findResource(core, id) < 0 {
			class, _ := body["class"].(string)
			s.resources[core] = append(s.resources[core], map[string]any{
				"resourceId":   id,
				"class":        class,
				"numObservers": 0,
			})
			if strings.HasPrefix(id, "/schema/analysis/synonyms/") {
				s.synonyms[core+id] = map[string]any{
					"initArgs":   map[string]any{"ignoreCase": false},
					"managedMap": map[string]any{},
				}
			}
			return ok(nil)
		}

		doc := s.synonyms[core+id]
		if doc == nil {
			return ok(nil)
		}
		managed, _ := doc["managedMap"].(map[string]any)
		for k, v := range body {
			words, _ := v.([]any)
			have, _ := managed[k].([]any)
			for _, w := range words {
				if !containsAny(have, w) {
					have = append(have, w)
				}
			}
			managed[k] = have
		}
		return ok(nil)
	}
}

func (s *Server) getResource(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := resourceOf(core, req.Path)
		doc, found := s.synonyms[core+id]
		if !found {
			return notFound()
		}
		return ok(map[string]any{"synonymMappings": doc})
	}
}

func (s *Server) postResource(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := resourceOf(core, req.Path)
		doc, found := s.synonyms[core+id]
		if !found {
			return notFound()
		}
		body, _ := req.Body.(map[string]any)
		if args, isMap := body["initArgs"].(map[string]any); isMap {
			doc["initArgs"] = clone(args)
		}
		return ok(nil)
	}
}

func (s *Server) deleteResource(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, key := resourceOf(core, req.Path)
		i := s.findResource(core, id)
		if i < 0 {
			return notFound()
		}
		if key != "" {
			if doc := s.synonyms[core+id]; doc != nil {
				managed, _ := doc["managedMap"].(map[string]any)
				delete(managed, key)
			}
			return ok(nil)
		}
		s.resources[core] = append(s.resources[core][:i], s.resources[core][i+1:]...)
		delete(s.synonyms, core+id)
		return ok(nil)
	}
}

func (s *Server) getFile(core string) transport.Handler {
	return func(req *transport.Request) (*transport.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		files := s.files[core]
		p := path.Clean("/" + req.Query.Get("file"))

		if content, isFile := files[p]; isFile {
			return &transport.Response{StatusCode: http.StatusOK, ContentType: "text/plain", Body: []byte(content)}, nil
		}
		if req.Query.Get("wt") != "json" {
			return notFound()
		}

		entries := map[string]any{}
		prefix := strings.TrimSuffix(p, "/") + "/"
		names := make([]string, 0, len(files))
		for fp := range files {
			names = append(names, fp)
		}
		sort.Strings(names)
		for _, fp := range names {
			if !strings.HasPrefix(fp, prefix) {
				continue
			}
			rest := strings.TrimPrefix(fp, prefix)
			if dir, _, nested := strings.Cut(rest, "/"); nested {
				entries[dir] = map[string]any{"directory": true}
				continue
			}
			entries[rest] = map[string]any{"size": len(files[fp])}
		}
		return ok(map[string]any{"files": entries})
	}
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func containsAny(list []any, v any) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}
