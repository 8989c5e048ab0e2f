package main

import (
	"embed"
	"io/fs"
	"net/http"

	feeddeck "github.com/feeddeck/feeddeck"
)

//go:embed templates static
var embedded embed.FS

// newRouter sets up all routes using Go 1.22+ enhanced routing.
func newRouter(engine *feeddeck.Engine, sess *session) http.Handler {
	mux := http.NewServeMux()

	// Static files
	staticFS, _ := fs.Sub(embedded, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	h := &handlers{engine: engine, sess: sess}

	mux.HandleFunc("GET /{$}", h.handleDashboard)

	mux.HandleFunc("POST /projects", h.handleProjectCreate)
	mux.HandleFunc("POST /projects/delete", h.handleProjectDelete)
	mux.HandleFunc("POST /feeds", h.handleFeedAdd)
	mux.HandleFunc("POST /feeds/delete", h.handleFeedDelete)
	mux.HandleFunc("POST /settings", h.handleSettings)
	mux.HandleFunc("POST /articles/read", h.handleMarkRead)
	mux.HandleFunc("POST /articles/send", h.handleSendWebhook)

	return mux
}
