package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //set false and provide an auth token for deployments
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking defaults, overridable with CHUNK_SIZE / CHUNK_OVERLAP
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50

	//retrieval
	TopKResults           = 5
	CitationPreviewLength = 200

	//one collection per vector-space generation; the dimension is part of the
	//name so a model change never mixes incompatible vectors
	CollectionBaseName = "document_chunks"

	//native widths of the default embedding model per backend; a different
	//model needs EMBEDDING_DIM set to its width
	geminiEmbeddingDim = 768
	openAIEmbeddingDim = 1536
	ollamaEmbeddingDim = 4096

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion job buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = "127.0.0.1"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//per-stage deadlines for ingestion and retrieval
	EmbeddingTimeout      = 120 * time.Second
	VectorDBTimeout       = 30 * time.Second
	IngestJobTimeout      = 10 * time.Minute
	PageExtractionTimeout = 10 * time.Second

	//llm backends: "ollama" (default, local server), "gemini", "openai"
	OllamaModel          = "llama3"
	OllamaEmbedModel     = "llama3"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature  float32 = 0.0
	SystemInstruction         = "You are AuraMind Assistant, a secure internal knowledge AI. " +
		"Answer based ONLY on the PROVIDED CONTEXT. Chunks are prefixed with 'Source: filename'. " +
		"Always specify which document you are citing by its filename. " +
		"If information is missing from the context, state that it is not found in the uploaded documents."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisHistoryStore  = 1
	RedisDocumentStore = 2

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour

	//uploads
	UploadDirName = "uploads"
	MaxUploadSize = 32 << 20 //32mb
)

func OllamaBaseURL() string {
	return envOr("OLLAMA_BASE_URL", "http://localhost:11434")
}

func LLMBackend() string {
	return envOr("LLM_BACKEND", "ollama")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// EmbeddingDimension is the vector width of the active embedding model. The
// qdrant collection is sized and named from it, so it must match what the
// selected backend actually emits.
func EmbeddingDimension() int {
	fallback := ollamaEmbeddingDim
	switch LLMBackend() {
	case "gemini":
		fallback = geminiEmbeddingDim
	case "openai":
		fallback = openAIEmbeddingDim
	}
	return envOrInt("EMBEDDING_DIM", fallback)
}

func ChunkSize() int {
	return envOrInt("CHUNK_SIZE", DefaultChunkSize)
}

func ChunkOverlap() int {
	return envOrInt("CHUNK_OVERLAP", DefaultChunkOverlap)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
