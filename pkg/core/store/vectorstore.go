package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentStore persists chunked filing documents for embedding.
// With a pool it writes to the documents table (pgvector schema; the
// embedding column is filled by the embedding worker). Without one it
// falls back to a local directory, which keeps the pipeline usable
// offline.
type DocumentStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewDocumentStore creates a store backed by pool, or by fileDir when
// pool is nil. An empty fileDir defaults to .cache/edgar/documents.
func NewDocumentStore(pool *pgxpool.Pool, fileDir string) *DocumentStore {
	if pool == nil && fileDir == "" {
		fileDir = filepath.Join(".cache", "edgar", "documents")
	}
	if fileDir != "" {
		if err := os.MkdirAll(fileDir, 0755); err != nil {
			log.Printf("[WARNING] Could not create document store dir %s: %v", fileDir, err)
		}
	}
	return &DocumentStore{pool: pool, fileDir: fileDir}
}

// StoreDocument implements edgar.DocumentSink: it chunks the content
// and persists each chunk with chunk_index/total_chunks merged into
// the metadata.
func (s *DocumentStore) StoreDocument(ctx context.Context, content string, metadata map[string]any) error {
	chunks := ChunkMarkdown(content)
	total := len(chunks)

	for i, chunk := range chunks {
		chunkMeta := make(map[string]any, len(metadata)+2)
		for k, v := range metadata {
			chunkMeta[k] = v
		}
		chunkMeta["chunk_index"] = i
		chunkMeta["total_chunks"] = total

		if err := s.storeChunk(ctx, chunk, chunkMeta); err != nil {
			return fmt.Errorf("storing chunk %d/%d: %w", i+1, total, err)
		}
	}

	log.Printf("Stored document in %d chunks (%s)", total, describe(metadata))
	return nil
}

func (s *DocumentStore) storeChunk(ctx context.Context, content string, metadata map[string]any) error {
	id := uuid.New().String()
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding chunk metadata: %w", err)
	}

	if s.pool != nil {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO documents (id, content, metadata) VALUES ($1, $2, $3)`,
			id, content, metaJSON)
		if err != nil {
			return fmt.Errorf("inserting document chunk: %w", err)
		}
		return nil
	}

	path := filepath.Join(s.fileDir, id+".json")
	record, err := json.Marshal(map[string]any{
		"id":       id,
		"content":  content,
		"metadata": metadata,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, record, 0644)
}

// describe summarizes metadata for log lines.
func describe(metadata map[string]any) string {
	symbol, _ := metadata["symbol"].(string)
	accession, _ := metadata["accession_number"].(string)
	if symbol == "" && accession == "" {
		return "document"
	}
	return fmt.Sprintf("%s %s", symbol, accession)
}
