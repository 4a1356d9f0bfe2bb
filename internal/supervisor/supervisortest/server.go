// Package supervisortest runs an in-memory Supervisor API for tests.
package supervisortest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/hassglue/internal/supervisor"
)

const Token = "test-token"

// Call is one mutating request the server received.
type Call struct {
	Path string
	Body map[string]any
}

type Server struct {
	URL string

	mu         sync.Mutex
	info       supervisor.Info
	core       supervisor.VersionInfo
	os         supervisor.VersionInfo
	supervisor supervisor.SupervisorInfo
	changelogs map[string]string
	failing    map[string]string
	calls      []Call
	gets       map[string]int
}

// New starts a server preloaded with a Home Assistant OS install that has a
// pending Core, OS and add-on update.
func New(t *testing.T) *Server {
	t.Helper()
	hassos := "8.0"
	s := &Server{
		info: supervisor.Info{Supervisor: "2022.05.0", Homeassistant: "2022.4.0", Hassos: &hassos},
		core: supervisor.VersionInfo{Version: "2022.4.0", VersionLatest: "2022.5.0", UpdateAvailable: true},
		os:   supervisor.VersionInfo{Version: "8.0", VersionLatest: "8.1", UpdateAvailable: true},
		supervisor: supervisor.SupervisorInfo{
			VersionInfo: supervisor.VersionInfo{Version: "2022.05.0", VersionLatest: "2022.05.0"},
			Addons: []supervisor.Addon{{
				Slug: "core_ssh", Name: "Terminal & SSH", Version: "9.0", VersionLatest: "9.1",
				UpdateAvailable: true, Icon: true, State: "started",
			}},
		},
		changelogs: map[string]string{"core_ssh": "## 9.1\n\n- Bump base image"},
		failing:    map[string]string{},
		gets:       map[string]int{},
	}

	srv := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// Fail makes "METHOD /path" answer with an error result carrying msg.
func (s *Server) Fail(route, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[route] = msg
}

// SetHassOS switches between a Home Assistant OS and a supervised install.
func (s *Server) SetHassOS(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		v := s.os.Version
		s.info.Hassos = &v
		return
	}
	s.info.Hassos = nil
}

func (s *Server) SetCore(v supervisor.VersionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.core = v
}

func (s *Server) SetAddons(addons ...supervisor.Addon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supervisor.Addons = addons
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Gets counts GET requests to path.
func (s *Server) Gets(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[path]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+Token {
		writeEnvelope(w, http.StatusUnauthorized, "error", "unauthorized", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	if msg, ok := s.failing[route]; ok {
		writeEnvelope(w, http.StatusBadRequest, "error", msg, nil)
		return
	}

	if r.Method == http.MethodGet {
		s.gets[r.URL.Path]++
		switch {
		case r.URL.Path == "/info":
			writeEnvelope(w, http.StatusOK, "ok", "", s.info)
		case r.URL.Path == "/core/info":
			writeEnvelope(w, http.StatusOK, "ok", "", s.core)
		case r.URL.Path == "/os/info":
			writeEnvelope(w, http.StatusOK, "ok", "", s.os)
		case r.URL.Path == "/supervisor/info":
			writeEnvelope(w, http.StatusOK, "ok", "", s.supervisor)
		case strings.HasPrefix(r.URL.Path, "/addons/") && strings.HasSuffix(r.URL.Path, "/changelog"):
			slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/addons/"), "/changelog")
			log, ok := s.changelogs[slug]
			if !ok {
				http.Error(w, "no changelog", http.StatusNotFound)
				return
			}
			_, _ = io.WriteString(w, log)
		default:
			writeEnvelope(w, http.StatusNotFound, "error", "not found", nil)
		}
		return
	}

	if r.Method != http.MethodPost {
		writeEnvelope(w, http.StatusMethodNotAllowed, "error", "method not allowed", nil)
		return
	}

	call := Call{Path: r.URL.Path}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}
	s.calls = append(s.calls, call)
	s.apply(call)
	writeEnvelope(w, http.StatusOK, "ok", "", nil)
}

// apply moves the updated subject to its latest version, the way a real
// update would be reflected on the next refresh.
func (s *Server) apply(call Call) {
	switch {
	case call.Path == "/core/update":
		s.core.Version, s.core.UpdateAvailable = s.core.VersionLatest, false
	case call.Path == "/os/update":
		s.os.Version, s.os.UpdateAvailable = s.os.VersionLatest, false
	case call.Path == "/supervisor/update":
		s.supervisor.Version, s.supervisor.UpdateAvailable = s.supervisor.VersionLatest, false
	case strings.HasPrefix(call.Path, "/addons/"):
		slug := strings.TrimSuffix(strings.TrimPrefix(call.Path, "/addons/"), "/update")
		for i := range s.supervisor.Addons {
			if s.supervisor.Addons[i].Slug == slug {
				s.supervisor.Addons[i].Version = s.supervisor.Addons[i].VersionLatest
				s.supervisor.Addons[i].UpdateAvailable = false
			}
		}
	}
}

func writeEnvelope(w http.ResponseWriter, status int, result, message string, data any) {
	body := map[string]any{"result": result}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// UpToDate is a VersionInfo with no pending update.
func UpToDate(version string) supervisor.VersionInfo {
	return supervisor.VersionInfo{Version: version, VersionLatest: version}
}
