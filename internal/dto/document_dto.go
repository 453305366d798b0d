package dto

type IngestDocumentRequest struct {
	Source  string `json:"source" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type IngestDocumentResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

// PublishIngestDocumentMessage is the payload carried on the ingest topic.
type PublishIngestDocumentMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}
