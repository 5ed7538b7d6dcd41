// @title           AuraMind RAG API
// @version         1.0
// @description     Document ingestion and citation-backed streaming answers over internal documents.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/auramind/rag-api/docs"
	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/data/store"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	jobmodel "github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/handlers"
	"github.com/auramind/rag-api/internal/job"
	"github.com/auramind/rag-api/internal/rag"
	"github.com/auramind/rag-api/internal/rag/embedding"
	"github.com/auramind/rag-api/internal/rag/embedding/googleEmbedding"
	"github.com/auramind/rag-api/internal/rag/embedding/ollamaEmbedding"
	"github.com/auramind/rag-api/internal/rag/embedding/openaiEmbedding"
	"github.com/auramind/rag-api/internal/rag/llm"
	"github.com/auramind/rag-api/internal/rag/llm/gemini"
	"github.com/auramind/rag-api/internal/rag/llm/ollama"
	"github.com/auramind/rag-api/internal/rag/llm/openaiLLM"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
	"github.com/auramind/rag-api/internal/rag/vectorDB/memoryDB"
	"github.com/auramind/rag-api/internal/rag/vectorDB/qdrantDB"
	"github.com/auramind/rag-api/internal/server"
	"github.com/auramind/rag-api/internal/worker"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//stores, redis first with in-memory fallbacks
	var jobStore jobmodel.JobStore
	var documentStore commonModels.DocumentStore
	var historyStore commonModels.HistoryStore
	redisJobs := store.GetRedisJobStore(serviceContext)
	redisDocs := store.GetRedisDocumentStore(serviceContext)
	redisHistory := store.GetRedisHistoryStore(serviceContext)
	if redisJobs == nil || redisDocs == nil || redisHistory == nil {
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		jobStore = store.InitInMemoryJobStore()
		documentStore = store.InitInMemoryDocumentStore()
		historyStore = store.InitInMemoryHistoryStore()
	} else {
		jobStore = redisJobs
		documentStore = redisDocs
		historyStore = redisHistory
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		DocumentStore:     documentStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	var index vectorDB.Index = qdrantDB.GetQdrantIndex(serviceContext)
	if index == nil {
		logger.Error("Qdrant is offline, falling back to in-memory vector index")
		index = memoryDB.NewMemoryIndex()
	}

	embeddingService, llmProvider := buildBackends(serviceContext)
	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(index, llmProvider, embeddingService, documentStore, historyStore)

	handlers.Init(service, ragService, documentStore, historyStore)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildBackends picks the embedding and generation backends from LLM_BACKEND.
// Both always come from the same provider so query vectors live in the same
// space as the document vectors.
func buildBackends(ctx context.Context) (embedding.Embedder, llm.Provider) {
	switch config.LLMBackend() {
	case "gemini":
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey()),
			gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleAPIKey())
	case "openai":
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey()),
			openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey())
	default:
		return ollamaEmbedding.GetOllamaEmbeddingClient(config.OllamaBaseURL(), config.OllamaEmbedModel),
			ollama.GetOllamaClient(config.OllamaBaseURL(), config.OllamaModel)
	}
}
