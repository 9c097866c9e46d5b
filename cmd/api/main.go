package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"sherlock/internal/config"
	"sherlock/internal/extract"
	"sherlock/internal/http"
	"sherlock/internal/indexer"
	"sherlock/internal/llm"
	"sherlock/internal/rag"
	"sherlock/internal/service"
	"sherlock/internal/storage"
	"sherlock/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	historyRepo := storage.NewHistoryRepo(db)
	docTypeRepo := storage.NewDocTypeRepo(db)
	uploadRepo := storage.NewUploadRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure both index collections exist with the correct vector size
	for _, collection := range []string{cfg.ParentCollection, cfg.ChildCollection} {
		if err := vectorStore.EnsureCollection(ctx, collection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection %s: %v", collection, err)
		}
	}
	slog.Info("Qdrant collections ready",
		"parent", cfg.ParentCollection,
		"child", cfg.ChildCollection,
		"vector_size", cfg.QdrantVectorSize,
	)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create indexing pipeline
	normalizer := indexer.NewTableNormalizer(llmClient)
	builder := indexer.NewBuilder(normalizer)
	pipeline := indexer.NewPipeline(builder, embedder, vectorStore, cfg.ParentCollection, cfg.ChildCollection)

	// Create retrieval engine and conversation service
	engine := rag.NewEngine(embedder, vectorStore, cfg.ParentCollection, cfg.ChildCollection)
	conversation := service.NewConversationService(engine, llmClient, historyRepo, docTypeRepo)
	slog.Info("Conversation service initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Conversation:     conversation,
		Indexer:          pipeline,
		Extractors:       extract.NewRegistry(),
		Uploads:          uploadRepo,
		DocTypes:         docTypeRepo,
		VectorStore:      vectorStore,
		ParentCollection: cfg.ParentCollection,
		ChildCollection:  cfg.ChildCollection,
		UploadDir:        cfg.UploadDir,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
