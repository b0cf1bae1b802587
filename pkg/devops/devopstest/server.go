// Package devopstest provides an in-process fake of the Azure DevOps work item
// tracking API for tests.
package devopstest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/joshcarp/workitems-mcp/pkg/config"
)

const (
	Organization = "contoso"
	Project      = "web"
	Token        = "test-pat"
)

// Request is a call the fake received.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Server is a fake work item tracking API rooted at /contoso/web/_apis/wit.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	queryIDs  []int
	items     map[int]map[string]any
	types     []string
	typeJSON  map[string]json.RawMessage
	getFail   int
	patchFail map[string]int
	requests  []Request
}

// NewServer starts a fake; call Close when done.
func NewServer() *Server {
	s := &Server{
		items:     make(map[int]map[string]any),
		typeJSON:  make(map[string]json.RawMessage),
		patchFail: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Config returns a configuration pointing at the fake.
func (s *Server) Config() config.Config {
	cfg := config.Default()
	cfg.Host = s.URL
	cfg.Organization = Organization
	cfg.Project = Project
	cfg.AccessToken = Token
	return cfg
}

// SetQueryResult sets the IDs every WIQL query returns.
func (s *Server) SetQueryResult(ids ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryIDs = ids
}

// AddWorkItem stores a work item with the given fields.
func (s *Server) AddWorkItem(id int, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fields == nil {
		fields = map[string]any{}
	}
	s.items[id] = fields
}

// Fields returns the stored fields of a work item.
func (s *Server) Fields(id int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

// AddType stores a raw work item type definition under name.
func (s *Server) AddType(name, rawJSON string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.typeJSON[name]; !exists {
		s.types = append(s.types, name)
	}
	s.typeJSON[name] = json.RawMessage(rawJSON)
}

// FailWorkItemsGet makes GET /workitems answer with status.
func (s *Server) FailWorkItemsGet(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getFail = status
}

// FailPatch makes PATCH /workitems/{id} answer with status.
func (s *Server) FailPatch(id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchFail[id] = status
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})

	if _, pass, ok := r.BasicAuth(); !ok || pass != Token {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	prefix := "/" + Organization + "/" + Project + "/_apis/wit"
	path, found := strings.CutPrefix(r.URL.Path, prefix)
	if !found {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodPost && path == "/wiql":
		s.handleWiql(w)
	case r.Method == http.MethodGet && path == "/workitems":
		s.handleGetWorkItems(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/workitems/"):
		s.handlePatch(w, strings.TrimPrefix(path, "/workitems/"), body)
	case r.Method == http.MethodGet && path == "/workitemtypes":
		s.handleListTypes(w)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/workitemtypes/"):
		s.handleType(w, r, strings.TrimPrefix(path, "/workitemtypes/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleWiql(w http.ResponseWriter) {
	refs := make([]map[string]any, 0, len(s.queryIDs))
	for _, id := range s.queryIDs {
		refs = append(refs, map[string]any{"id": id, "url": s.itemURL(id)})
	}
	writeJSON(w, map[string]any{"queryType": "flat", "workItems": refs})
}

func (s *Server) handleGetWorkItems(w http.ResponseWriter, r *http.Request) {
	if s.getFail != 0 {
		http.Error(w, `{"message":"forced failure"}`, s.getFail)
		return
	}

	var value []map[string]any
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, `{"message":"bad id"}`, http.StatusBadRequest)
			return
		}
		fields, exists := s.items[id]
		if !exists {
			http.Error(w, `{"message":"work item does not exist"}`, http.StatusNotFound)
			return
		}
		value = append(value, map[string]any{"id": id, "rev": 1, "fields": fields, "url": s.itemURL(id)})
	}
	writeJSON(w, map[string]any{"count": len(value), "value": value})
}

func (s *Server) handlePatch(w http.ResponseWriter, rawID string, body []byte) {
	if status, fail := s.patchFail[rawID]; fail {
		http.Error(w, `{"message":"forced failure"}`, status)
		return
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		http.Error(w, `{"message":"bad id"}`, http.StatusBadRequest)
		return
	}
	fields, exists := s.items[id]
	if !exists {
		http.Error(w, `{"message":"work item does not exist"}`, http.StatusNotFound)
		return
	}

	var ops []struct {
		Op    string `json:"op"`
		Path  string `json:"path"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal(body, &ops); err != nil {
		http.Error(w, `{"message":"bad patch"}`, http.StatusBadRequest)
		return
	}
	for _, op := range ops {
		ref, isField := strings.CutPrefix(op.Path, "/fields/")
		if op.Op != "add" || !isField {
			http.Error(w, `{"message":"unsupported op"}`, http.StatusBadRequest)
			return
		}
		fields[ref] = op.Value
	}
	writeJSON(w, map[string]any{"id": id, "rev": 2, "fields": fields, "url": s.itemURL(id)})
}

func (s *Server) handleListTypes(w http.ResponseWriter) {
	value := make([]json.RawMessage, 0, len(s.types))
	for _, name := range s.types {
		value = append(value, s.typeJSON[name])
	}
	writeJSON(w, map[string]any{"count": len(value), "value": value})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request, rest string) {
	name, sub, _ := strings.Cut(rest, "/")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	raw, exists := s.typeJSON[name]
	if !exists {
		http.Error(w, `{"message":"work item type does not exist"}`, http.StatusNotFound)
		return
	}

	switch sub {
	case "":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	case "states":
		var def struct {
			States []json.RawMessage `json:"states"`
		}
		_ = json.Unmarshal(raw, &def)
		if def.States == nil {
			def.States = []json.RawMessage{}
		}
		writeJSON(w, map[string]any{"count": len(def.States), "value": def.States})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) itemURL(id int) string {
	return s.URL + "/" + Organization + "/" + Project + "/_apis/wit/workItems/" + strconv.Itoa(id)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
