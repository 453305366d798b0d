package retrieval

import (
	"context"

	"pnm-assistant-be/internal/pkg/apperror"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/internal/repository/contract"
	"pnm-assistant-be/pkg/embedding"
)

// Passage is one retrieved reference snippet.
type Passage struct {
	Source  string
	Content string
	Score   float64
}

// Retriever embeds a query and runs cosine search over the document index.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

// Retrieve returns up to k passages most similar to the query, best first.
func (r *Retriever) Retrieve(ctx context.Context, repo contract.DocumentEmbeddingRepository, query string, k int) ([]Passage, error) {
	embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, apperror.Retrieval("embedding generation failed", err)
	}

	scored, err := repo.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, k, 0.0)
	if err != nil {
		return nil, apperror.Retrieval("vector search failed", err)
	}

	passages := make([]Passage, 0, len(scored))
	for _, res := range scored {
		passages = append(passages, Passage{
			Source:  res.Embedding.Source,
			Content: res.Embedding.Passage,
			Score:   res.Similarity,
		})
	}

	r.log.Debug("retrieval", "Passages retrieved", map[string]interface{}{
		"query_length": len(query),
		"count":        len(passages),
	})

	return passages, nil
}
