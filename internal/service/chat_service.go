package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pnm-assistant-be/internal/constant"
	"pnm-assistant-be/internal/dto"
	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/pkg/apperror"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/internal/repository/cache"
	"pnm-assistant-be/internal/repository/memory"
	"pnm-assistant-be/internal/repository/specification"
	"pnm-assistant-be/internal/repository/unitofwork"
	"pnm-assistant-be/pkg/llm/factory"
	"pnm-assistant-be/pkg/rag"
	"pnm-assistant-be/pkg/rag/answer"
	"pnm-assistant-be/pkg/rag/retrieval"
	"pnm-assistant-be/pkg/rag/summary"
	"pnm-assistant-be/pkg/rag/title"
)

// IChatService is the turn-handling entry point.
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryMessageResponse, error)
	ListSessions(ctx context.Context) ([]*dto.SessionOverviewResponse, error)
	ListThreads(ctx context.Context) ([]*dto.ThreadResponse, error)
}

// ThreadCache is the slice of the Fast Cache the chat flow writes to. Mirror
// failures never fail a request; the transcript store stays authoritative.
type ThreadCache interface {
	MirrorThread(ctx context.Context, sessionId, title string, timestamp time.Time) error
	PushTurn(ctx context.Context, sessionId, userQuery, response string) error
	ListThreads(ctx context.Context) ([]*cache.Thread, error)
	FullConversation(ctx context.Context, sessionId string) ([]*cache.CachedMessage, error)
}

type ChatConfig struct {
	RetrievalTopK   int
	SummaryWindow   int
	ConfiguredModel string
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	retriever    *retrieval.Retriever
	generator    *answer.Generator
	summarizer   *summary.Summarizer
	titleDeriver *title.Deriver
	threadCache  ThreadCache
	titleMemo    *memory.TitleMemo
	log          logger.ILogger
	cfg          ChatConfig
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Retriever,
	generator *answer.Generator,
	summarizer *summary.Summarizer,
	titleDeriver *title.Deriver,
	threadCache ThreadCache,
	titleMemo *memory.TitleMemo,
	log logger.ILogger,
	cfg ChatConfig,
) IChatService {
	if cfg.RetrievalTopK <= 0 {
		cfg.RetrievalTopK = 5
	}
	if cfg.ConfiguredModel == "" {
		cfg.ConfiguredModel = constant.ModelQwen3
	}
	return &chatService{
		uowFactory:   uowFactory,
		retriever:    retriever,
		generator:    generator,
		summarizer:   summarizer,
		titleDeriver: titleDeriver,
		threadCache:  threadCache,
		titleMemo:    titleMemo,
		log:          log,
		cfg:          cfg,
	}
}

func (cs *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	requestedModel := request.Model
	if requestedModel == "" {
		requestedModel = constant.ModelQwen3
	}
	// Non-default models are accepted by the schema but resolve to the model
	// the deployment actually serves. The response echoes the requested value.
	servedModel := factory.ResolveModel(requestedModel, cs.cfg.ConfiguredModel)

	cs.log.Info("chat", "Handling chat turn", map[string]interface{}{
		"session_id": sessionId,
		"model":      requestedModel,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	history, err := cs.loadHistory(ctx, uow, sessionId)
	if err != nil {
		return nil, apperror.Persistence("failed to load chat history", err)
	}

	// Rewrite elliptical follow-ups into standalone questions before retrieval.
	retrievalQuery := cs.generator.Contextualize(ctx, request.Question, history)

	passages, err := cs.retriever.Retrieve(ctx, uow.DocumentEmbeddingRepository(), retrievalQuery, cs.cfg.RetrievalTopK)
	if err != nil {
		return nil, err
	}

	answerText, err := cs.generator.Generate(ctx, request.Question, passages, history, servedModel)
	if err != nil {
		return nil, err
	}

	// The sliding summary describes the conversation before this turn; the
	// just-produced answer is deliberately excluded.
	summaryText, err := cs.summarizer.Summarize(ctx, history)
	if err != nil {
		return nil, apperror.Generation("summary generation failed", err)
	}

	turn := &entity.ChatTurn{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserQuery: request.Question,
		Response:  answerText,
		Model:     requestedModel,
		Metadata: map[string]interface{}{
			constant.MetadataKeySlidingSummary: summaryText,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ChatLogRepository().Create(ctx, turn); err != nil {
		return nil, apperror.Persistence("failed to persist chat turn", err)
	}

	// Best-effort cache mirror of the full turn.
	if err := cs.threadCache.PushTurn(ctx, sessionId, request.Question, answerText); err != nil {
		cs.log.Warn("chat", "Failed to mirror turn into cache", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	// Title derivation is a side effect only. A failure here must never fail
	// the user-visible request: log, write the fallback, keep going.
	currentTurn := rag.Turn{Question: request.Question, Answer: answerText}
	if err := cs.deriveTitle(ctx, uow, sessionId, append(history, currentTurn)); err != nil {
		cs.log.Warn("chat", "Title derivation failed, writing fallback", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		fallback := &entity.ConversationTitle{
			SessionId: sessionId,
			Title:     constant.TitleSentinelNewChat,
			CreatedAt: time.Now(),
		}
		if err := uow.ConversationTitleRepository().Upsert(ctx, fallback); err != nil {
			cs.log.Warn("chat", "Fallback title write failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}

	return &dto.ChatResponse{
		Answer:    answerText,
		SessionId: sessionId,
		Model:     requestedModel,
	}, nil
}

func (cs *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId string) ([]rag.Turn, error) {
	turns, err := uow.ChatLogRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]rag.Turn, len(turns))
	for i, t := range turns {
		history[i] = rag.Turn{Question: t.UserQuery, Answer: t.Response}
	}
	return history, nil
}

// deriveTitle runs the once-per-turn naming decision. Re-derivation stops for
// good once a real title exists; sentinels keep the attempt alive.
func (cs *chatService) deriveTitle(ctx context.Context, uow unitofwork.UnitOfWork, sessionId string, history []rag.Turn) error {
	if cs.titleMemo.IsTitled(sessionId) {
		return nil
	}

	existing, err := uow.ConversationTitleRepository().Find(ctx, sessionId)
	if err != nil {
		return apperror.TitleDerivation("failed to load existing title", err)
	}
	if existing != nil && existing.Status == entity.TitleStatusReal {
		cs.titleMemo.MarkTitled(sessionId)
		return nil
	}

	anchor := cs.titleDeriver.LastTechnicalQuestion(history)
	if anchor == "" {
		cs.log.Info("chat", "Skipping title generation, no technical question yet", map[string]interface{}{
			"session_id": sessionId,
		})
		return nil
	}

	titleText, err := cs.titleDeriver.GenerateTitle(ctx, history)
	if err != nil {
		return apperror.TitleDerivation("title generation failed", err)
	}

	if entity.TitleStatusOf(titleText) != entity.TitleStatusReal {
		// A sentinel result is useless; leaving the row alone lets a later
		// turn retry with more signal.
		cs.log.Warn("chat", "Generated title was a placeholder, skipping save", map[string]interface{}{
			"session_id": sessionId,
			"title":      titleText,
		})
		return nil
	}

	now := time.Now()
	record := &entity.ConversationTitle{
		SessionId: sessionId,
		Title:     titleText,
		CreatedAt: now,
	}
	if err := uow.ConversationTitleRepository().Upsert(ctx, record); err != nil {
		return apperror.TitleDerivation("failed to persist title", err)
	}

	if err := cs.threadCache.MirrorThread(ctx, sessionId, titleText, now); err != nil {
		cs.log.Warn("chat", "Failed to mirror title into cache", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	cs.titleMemo.MarkTitled(sessionId)
	cs.log.Info("chat", "Title generated and saved", map[string]interface{}{
		"session_id": sessionId,
		"title":      titleText,
	})
	return nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ChatLogRepository().Count(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, apperror.Persistence("failed to load chat history", err)
	}

	// Cache fast path. Turn pushes are best-effort, so the cached copy is
	// served only when it provably holds every turn; the store stays
	// authoritative otherwise.
	if count > 0 {
		if cached, cerr := cs.threadCache.FullConversation(ctx, sessionId); cerr == nil && int64(len(cached)) == count*2 {
			messages := make([]*dto.ChatHistoryMessageResponse, len(cached))
			for i, msg := range cached {
				messages[i] = &dto.ChatHistoryMessageResponse{Role: msg.Role, Content: msg.Content}
			}
			return messages, nil
		}
	}

	turns, err := uow.ChatLogRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load chat history", err)
	}

	messages := make([]*dto.ChatHistoryMessageResponse, 0, len(turns)*2)
	for _, t := range turns {
		messages = append(messages,
			&dto.ChatHistoryMessageResponse{Role: constant.ChatMessageRoleUser, Content: t.UserQuery},
			&dto.ChatHistoryMessageResponse{Role: constant.ChatMessageRoleAssistant, Content: t.Response},
		)
	}
	return messages, nil
}

func (cs *chatService) ListSessions(ctx context.Context) ([]*dto.SessionOverviewResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatLogRepository().ListSessions(ctx)
	if err != nil {
		return nil, apperror.Persistence("failed to list sessions", err)
	}

	responses := make([]*dto.SessionOverviewResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = &dto.SessionOverviewResponse{
			SessionId:    s.SessionId,
			Title:        s.Title,
			LastActivity: s.LastActivity,
		}
	}
	return responses, nil
}

func (cs *chatService) ListThreads(ctx context.Context) ([]*dto.ThreadResponse, error) {
	threads, err := cs.threadCache.ListThreads(ctx)
	if err != nil {
		return nil, apperror.Persistence("failed to list threads", err)
	}

	responses := make([]*dto.ThreadResponse, len(threads))
	for i, t := range threads {
		responses[i] = &dto.ThreadResponse{
			SessionId: t.SessionId,
			Title:     t.Title,
			Timestamp: t.Timestamp,
		}
	}
	return responses, nil
}
