package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/auramind/rag-api/internal/adapter/utils"
	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
	"github.com/auramind/rag-api/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingDimension())

// CollectionName carries the embedding dimension so a model or backend change
// lands in a fresh collection instead of silently mixing incompatible vector
// spaces.
var CollectionName = fmt.Sprintf("%s_d%d", config.CollectionBaseName, config.EmbeddingDimension())

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQdrantIndex returns the shared qdrant-backed index, nil when qdrant is
// unreachable so the caller can fall back.
func GetQdrantIndex(ctx context.Context) vectorDB.Index {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{QObj: qdrantInstance}
}

func newClient(ctx context.Context) *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate qdrant client", "error", err)
		return nil
	}

	if err := ensureCollection(ctx, client); err != nil {
		logger.Error("could not create collection", "collectionName", CollectionName, "error", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) Add(ctx context.Context, contents []string, metadatas []commonModels.ChunkMetadata, vectors [][]float32) error {
	if len(contents) != len(metadatas) || len(contents) != len(vectors) {
		return fmt.Errorf("%w: %d contents, %d metadatas, %d vectors",
			vectorDB.ErrArgumentMismatch, len(contents), len(metadatas), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(contents))
	for i := range contents {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(utils.GetNewUUID()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":     contents[i],
				"document_id": metadatas[i].DocumentId,
				"pages":       metadatas[i].Pages,
				"filename":    metadatas[i].Filename,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: CollectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error) {
	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	results := make([]commonModels.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, commonModels.SearchResult{
			Id:      hit.Id.GetUuid(),
			Content: hit.Payload["content"].GetStringValue(),
			Metadata: commonModels.ChunkMetadata{
				DocumentId: hit.Payload["document_id"].GetStringValue(),
				Pages:      hit.Payload["pages"].GetStringValue(),
				Filename:   hit.Payload["filename"].GetStringValue(),
			},
			// cosine similarity in [-1,1]; smaller distance is a better match
			Distance: 1 - hit.Score,
		})
	}
	return results, nil
}

func (db *ClientHolder) DeleteByDocument(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: CollectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("document_id", documentId),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by document failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Reset(ctx context.Context) error {
	if err := db.QObj.DeleteCollection(ctx, CollectionName); err != nil {
		return fmt.Errorf("qdrant drop collection failed: %w", err)
	}
	return ensureCollection(ctx, db.QObj)
}

func ensureCollection(ctx context.Context, client *qdrant.Client) error {
	if CollectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, CollectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
