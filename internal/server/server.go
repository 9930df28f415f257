package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"econsult/internal/database"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for the consultation dashboard and read API.
type Server struct {
	db      *database.DB
	dataDir string
	pages   map[string]*template.Template
	mux     *http.ServeMux
}

// New creates a new Server. dataDir is where the pipeline wrote word cloud
// images; it is served under /static/.
func New(db *database.DB, dataDir string) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "draft.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, dataDir: dataDir, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Embedded stylesheet
	assetSub, _ := fs.Sub(assetFS, "assets")
	s.mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetSub))))

	// Pipeline output on disk: word cloud images under <dataDir>/static
	staticRoot := http.Dir(filepath.Join(s.dataDir, "static"))
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(staticRoot)))
	s.mux.Handle("/wordclouds/", http.StripPrefix("/wordclouds/",
		http.FileServer(http.Dir(filepath.Join(s.dataDir, "static", "wordclouds")))))

	// JSON API
	s.mux.HandleFunc("/api/drafts", s.handleAPIDrafts)
	s.mux.HandleFunc("/api/drafts/", s.handleAPIDraft)
	s.mux.HandleFunc("/api/sections/", s.handleAPISections)
	s.mux.HandleFunc("/api/comments/", s.handleAPIComments)

	// Dashboard
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/drafts/", s.handleDraft)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	drafts, err := s.db.GetAllDrafts()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Drafts": drafts,
	})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/drafts/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	draft, err := s.db.GetDraftByID(id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if draft == nil {
		http.NotFound(w, r)
		return
	}

	sections, err := s.db.GetSectionsForDraft(id)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "draft.html", map[string]any{
		"Draft":    draft,
		"Sections": sections,
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, dataDir string, port int) error {
	srv, err := New(db, dataDir)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
