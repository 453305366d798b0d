package dto

import "time"

type ChatRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	Model     string `json:"model,omitempty" validate:"omitempty,oneof=qwen3 gpt-4o gpt-4o-mini"`
}

type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionId string `json:"session_id"`
	Model     string `json:"model"`
}

type SessionOverviewResponse struct {
	SessionId    string    `json:"session_id"`
	Title        string    `json:"title"`
	LastActivity time.Time `json:"last_activity"`
}

type ThreadResponse struct {
	SessionId string  `json:"session_id"`
	Title     string  `json:"title"`
	Timestamp float64 `json:"timestamp"`
}

type ChatHistoryMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
