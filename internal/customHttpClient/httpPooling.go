package customHttpClient

import (
	"net/http"

	"github.com/auramind/rag-api/internal/config"
)

// Shared pooled transport for the local Ollama backends so embedding and
// generation calls reuse connections instead of redialing per request.

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{
	Transport: customTransport,
}

// GetPooledClient returns the process-wide pooled HTTP client. No per-client
// timeout is set: streaming generation holds the connection open, so callers
// bound their calls with a request context instead.
func GetPooledClient() *http.Client {
	return pooledClient
}
