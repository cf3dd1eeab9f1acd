// Package botapitest provides a fake Bot API server for tests.
package botapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// Server is a fake Bot API that records every call
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	calls  map[string][]url.Values
	nextID int
	fail   map[string]string
}

// NewServer starts a fake Bot API server; call Close when done
func NewServer() *Server {
	s := &Server{
		calls:  make(map[string][]url.Values),
		nextID: 100,
		fail:   make(map[string]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns the endpoint format expected by the bot library
func (s *Server) Endpoint() string {
	return s.URL + "/bot%s/%s"
}

// Calls returns the recorded parameters of a method
func (s *Server) Calls(method string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.calls[method]...)
}

// Fail makes every call of method return an API error with description
func (s *Server) Fail(method, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = description
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	method := parts[len(parts)-1]
	r.ParseForm()

	s.mu.Lock()
	s.calls[method] = append(s.calls[method], r.Form)
	description, failing := s.fail[method]
	s.nextID++
	msgID := s.nextID
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"error_code":  400,
			"description": description,
		})
		return
	}

	var result interface{} = true
	switch method {
	case "getMe":
		result = map[string]interface{}{
			"id":         1,
			"is_bot":     true,
			"first_name": "relay",
			"username":   "relay_bot",
		}
	case "sendMessage":
		result = map[string]interface{}{
			"message_id": msgID,
			"date":       0,
			"chat":       map[string]interface{}{"id": 1, "type": "private"},
			"text":       r.Form.Get("text"),
		}
	case "getUpdates":
		result = []interface{}{}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": result})
}
