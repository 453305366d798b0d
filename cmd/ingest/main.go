package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/repository/implementation"
	"pnm-assistant-be/pkg/database"
	"pnm-assistant-be/pkg/embedding"
	"pnm-assistant-be/pkg/utils"
)

// Batch knowledge-base loader. Reads every .txt/.md file in the corpus
// directory and replaces that source's chunks in the vector store.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING not set")
	}

	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if ollamaModel == "" {
		ollamaModel = "nomic-embed-text"
	}
	embeddingProvider := embedding.NewOllamaProvider(ollamaBaseURL, ollamaModel)

	corpusDir := "./corpus"
	if len(os.Args) > 1 {
		corpusDir = os.Args[1]
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	repo := implementation.NewDocumentEmbeddingRepository(db)

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		log.Fatalf("Failed to read corpus directory %s: %v", corpusDir, err)
	}

	ctx := context.Background()
	ingested := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(corpusDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			color.Red("✗ %s: %v", entry.Name(), err)
			continue
		}

		chunks := utils.SplitText(string(content), 1500, 200)
		color.Cyan("→ %s (%d chunks)", entry.Name(), len(chunks))

		embeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
		failed := false
		for i, chunk := range chunks {
			res, err := embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				color.Red("✗ %s chunk %d: %v", entry.Name(), i, err)
				failed = true
				break
			}
			embeddings = append(embeddings, &entity.DocumentEmbedding{
				Id:             uuid.New(),
				Source:         entry.Name(),
				Passage:        chunk,
				EmbeddingValue: res.Embedding.Values,
				ChunkIndex:     i,
				CreatedAt:      time.Now(),
			})
		}
		if failed {
			continue
		}

		if err := repo.DeleteBySource(ctx, entry.Name()); err != nil {
			color.Red("✗ %s: failed to clear old chunks: %v", entry.Name(), err)
			continue
		}
		if err := repo.CreateBulk(ctx, embeddings); err != nil {
			color.Red("✗ %s: failed to store chunks: %v", entry.Name(), err)
			continue
		}

		color.Green("✓ %s ingested", entry.Name())
		ingested++
	}

	color.Green("Done: %d documents ingested", ingested)
}
