package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sherlock/internal/extract"
	"sherlock/internal/handlers"
	"sherlock/internal/storage"
	"sherlock/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Conversation     handlers.Answerer
	Indexer          handlers.DocumentIndexer
	Extractors       *extract.Registry
	Uploads          storage.UploadStore
	DocTypes         storage.DocTypeStore
	VectorStore      vectorstore.VectorStore
	ParentCollection string
	ChildCollection  string
	UploadDir        string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	conversationHandler := handlers.NewConversationHandler(deps.Conversation)
	uploadHandler := handlers.NewUploadHandler(deps.Indexer, deps.Extractors, deps.Uploads, deps.DocTypes, deps.UploadDir)
	uploadListHandler := handlers.NewUploadListHandler(deps.Uploads)
	optionsHandler := handlers.NewOptionsHandler(deps.DocTypes)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.ParentCollection, deps.ChildCollection)

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/conversation", conversationHandler)
		r.Method(http.MethodPost, "/upload-files", uploadHandler)
		r.Method(http.MethodGet, "/uploads", uploadListHandler)
		r.Method(http.MethodPost, "/options", optionsHandler)
		r.Method(http.MethodGet, "/options", optionsHandler)
	})

	r.Method(http.MethodGet, "/healthz", healthHandler)

	return r
}
