package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnm-assistant-be/internal/constant"
	"pnm-assistant-be/internal/dto"
	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/pkg/apperror"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/internal/repository/cache"
	"pnm-assistant-be/internal/repository/contract"
	"pnm-assistant-be/internal/repository/memory"
	"pnm-assistant-be/internal/repository/specification"
	"pnm-assistant-be/internal/repository/unitofwork"
	"pnm-assistant-be/pkg/embedding"
	"pnm-assistant-be/pkg/llm"
	"pnm-assistant-be/pkg/rag/answer"
	"pnm-assistant-be/pkg/rag/retrieval"
	"pnm-assistant-be/pkg/rag/summary"
	"pnm-assistant-be/pkg/rag/title"
)

// fakeLLMProvider dispatches on prompt content so a single fake can stand in
// for the QA, contextualize, summary, and title calls.
type fakeLLMProvider struct {
	answerResult  string
	answerErr     error
	titleResult   string
	titleErr      error
	summaryResult string
	summaryErr    error

	titleCalls     int
	summaryPrompts []string
}

func (f *fakeLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 && strings.Contains(history[0].Content, "reformulate the latest user message") {
		// Contextualize call: echo the question unchanged.
		return history[len(history)-1].Content, nil
	}
	return f.answerResult, f.answerErr
}

func (f *fakeLLMProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "Summarize the following conversation") {
		f.summaryPrompts = append(f.summaryPrompts, prompt)
		return f.summaryResult, f.summaryErr
	}
	f.titleCalls++
	return f.titleResult, f.titleErr
}

type fakeEmbeddingProvider struct{}

func (f *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeChatLogRepository struct {
	turns     []*entity.ChatTurn
	createErr error
}

func (f *fakeChatLogRepository) Create(ctx context.Context, turn *entity.ChatTurn) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeChatLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	return f.turns, nil
}

func (f *fakeChatLogRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.turns)), nil
}

func (f *fakeChatLogRepository) ListSessions(ctx context.Context) ([]*entity.SessionOverview, error) {
	return nil, nil
}

type fakeTitleRepository struct {
	titles    map[string]*entity.ConversationTitle
	upsertErr error
}

func newFakeTitleRepository() *fakeTitleRepository {
	return &fakeTitleRepository{titles: map[string]*entity.ConversationTitle{}}
}

func (f *fakeTitleRepository) Find(ctx context.Context, sessionId string) (*entity.ConversationTitle, error) {
	return f.titles[sessionId], nil
}

func (f *fakeTitleRepository) Upsert(ctx context.Context, t *entity.ConversationTitle) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	stored := *t
	stored.Status = entity.TitleStatusOf(t.Title)
	f.titles[t.SessionId] = &stored
	return nil
}

type fakeEmbeddingRepository struct {
	scored    []*contract.ScoredDocumentEmbedding
	searchErr error
}

func (f *fakeEmbeddingRepository) Create(ctx context.Context, e *entity.DocumentEmbedding) error {
	return nil
}
func (f *fakeEmbeddingRepository) CreateBulk(ctx context.Context, e []*entity.DocumentEmbedding) error {
	return nil
}
func (f *fakeEmbeddingRepository) DeleteBySource(ctx context.Context, source string) error {
	return nil
}
func (f *fakeEmbeddingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error) {
	return nil, nil
}
func (f *fakeEmbeddingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (f *fakeEmbeddingRepository) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64) ([]*contract.ScoredDocumentEmbedding, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.scored, nil
}

type fakeUnitOfWork struct {
	chatLogs   *fakeChatLogRepository
	titles     *fakeTitleRepository
	embeddings *fakeEmbeddingRepository
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }
func (f *fakeUnitOfWork) ChatLogRepository() contract.ChatLogRepository {
	return f.chatLogs
}
func (f *fakeUnitOfWork) ConversationTitleRepository() contract.ConversationTitleRepository {
	return f.titles
}
func (f *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return f.embeddings
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeThreadCache struct {
	mirroredTitle   string
	pushedTurns     int
	pushErr         error
	mirrorErr       error
	conversation    []*cache.CachedMessage
	conversationErr error
}

func (f *fakeThreadCache) MirrorThread(ctx context.Context, sessionId, title string, timestamp time.Time) error {
	if f.mirrorErr != nil {
		return f.mirrorErr
	}
	f.mirroredTitle = title
	return nil
}

func (f *fakeThreadCache) PushTurn(ctx context.Context, sessionId, userQuery, response string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushedTurns++
	return nil
}

func (f *fakeThreadCache) ListThreads(ctx context.Context) ([]*cache.Thread, error) {
	return nil, nil
}

func (f *fakeThreadCache) FullConversation(ctx context.Context, sessionId string) ([]*cache.CachedMessage, error) {
	return f.conversation, f.conversationErr
}

type chatFixture struct {
	provider *fakeLLMProvider
	uow      *fakeUnitOfWork
	cache    *fakeThreadCache
	memo     *memory.TitleMemo
	svc      IChatService
}

func newChatFixture(provider *fakeLLMProvider) *chatFixture {
	uow := &fakeUnitOfWork{
		chatLogs:   &fakeChatLogRepository{},
		titles:     newFakeTitleRepository(),
		embeddings: &fakeEmbeddingRepository{},
	}
	threadCache := &fakeThreadCache{}
	memo := memory.NewTitleMemo()
	log := logger.NewNopLogger()

	svc := NewChatService(
		&fakeFactory{uow: uow},
		retrieval.NewRetriever(&fakeEmbeddingProvider{}, log),
		answer.NewGenerator(provider, log),
		summary.NewSummarizer(provider, 10),
		title.NewDeriver(provider, title.NewRegexClassifier(), log),
		threadCache,
		memo,
		log,
		ChatConfig{RetrievalTopK: 5, SummaryWindow: 10, ConfiguredModel: constant.ModelQwen3},
	)

	return &chatFixture{provider: provider, uow: uow, cache: threadCache, memo: memo, svc: svc}
}

func TestChatFirstTurnDerivesTitle(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "DOCSIS 3.1 uses OFDM modulation.",
		titleResult:  "DOCSIS 3.1 Overview",
	})

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "What is DOCSIS 3.1?",
	})
	require.NoError(t, err)

	assert.Equal(t, "DOCSIS 3.1 uses OFDM modulation.", res.Answer)
	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, constant.ModelQwen3, res.Model)

	require.Len(t, fx.uow.chatLogs.turns, 1)
	turn := fx.uow.chatLogs.turns[0]
	assert.Equal(t, res.SessionId, turn.SessionId)
	assert.Equal(t, "What is DOCSIS 3.1?", turn.UserQuery)
	// No prior history, so the stored rolling summary is empty.
	assert.Equal(t, "", turn.Metadata[constant.MetadataKeySlidingSummary])

	stored := fx.uow.titles.titles[res.SessionId]
	require.NotNil(t, stored)
	assert.Equal(t, "DOCSIS 3.1 Overview", stored.Title)
	assert.Equal(t, entity.TitleStatusReal, stored.Status)
	assert.Equal(t, "DOCSIS 3.1 Overview", fx.cache.mirroredTitle)
	assert.True(t, fx.memo.IsTitled(res.SessionId))
	assert.Equal(t, 1, fx.cache.pushedTurns)
}

func TestChatGreetingOnlySkipsTitle(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Hello! How can I help with your network today?",
	})

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "Hello, good morning!",
	})
	require.NoError(t, err)

	assert.Zero(t, fx.provider.titleCalls)
	assert.Empty(t, fx.uow.titles.titles)
	assert.False(t, fx.memo.IsTitled(res.SessionId))
	// The turn itself is still persisted.
	require.Len(t, fx.uow.chatLogs.turns, 1)
}

func TestChatTitleFailureWritesFallback(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Check the upstream SNR levels first.",
		titleErr:     errors.New("model unavailable"),
	})

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "Why is my upstream SNR degraded?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Check the upstream SNR levels first.", res.Answer)

	stored := fx.uow.titles.titles[res.SessionId]
	require.NotNil(t, stored)
	assert.Equal(t, constant.TitleSentinelNewChat, stored.Title)
	assert.Equal(t, entity.TitleStatusUnset, stored.Status)
	// The fallback is a sentinel, so a later turn may still derive a real one.
	assert.False(t, fx.memo.IsTitled(res.SessionId))
}

func TestChatRealTitleNeverRederived(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Yes, that applies to DOCSIS 4.0 as well.",
		titleResult:  "Should Not Be Used",
	})
	fx.uow.titles.titles["session-1"] = &entity.ConversationTitle{
		SessionId: "session-1",
		Title:     "Upstream SNR Troubleshooting",
		Status:    entity.TitleStatusReal,
	}

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question:  "Does that apply to DOCSIS 4.0?",
		SessionId: "session-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "session-1", res.SessionId)
	assert.Zero(t, fx.provider.titleCalls)
	assert.Equal(t, "Upstream SNR Troubleshooting", fx.uow.titles.titles["session-1"].Title)
	assert.True(t, fx.memo.IsTitled("session-1"))
}

func TestChatSentinelTitleResultNotSaved(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Here is how to schedule maintenance windows.",
		titleResult:  "New Chat",
	})

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "How do I schedule maintenance windows?",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.provider.titleCalls)
	assert.Empty(t, fx.uow.titles.titles)
	assert.False(t, fx.memo.IsTitled(res.SessionId))
}

func TestChatSummaryExcludesCurrentTurn(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult:  "Plan upgrades during low-traffic hours.",
		titleResult:   "Node Upgrade Planning",
		summaryResult: "The user asked about node splits.",
	})
	fx.uow.chatLogs.turns = []*entity.ChatTurn{
		{SessionId: "session-2", UserQuery: "When should I split a node?", Response: "When utilization stays above 80%."},
	}

	_, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question:  "And when should I upgrade the CMTS?",
		SessionId: "session-2",
	})
	require.NoError(t, err)

	require.Len(t, fx.provider.summaryPrompts, 1)
	prompt := fx.provider.summaryPrompts[0]
	assert.Contains(t, prompt, "When should I split a node?")
	assert.NotContains(t, prompt, "And when should I upgrade the CMTS?")

	latest := fx.uow.chatLogs.turns[len(fx.uow.chatLogs.turns)-1]
	assert.Equal(t, "The user asked about node splits.", latest.Metadata[constant.MetadataKeySlidingSummary])
}

func TestChatPersistFailureFailsRequest(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "An answer that will not be stored.",
	})
	fx.uow.chatLogs.createErr = errors.New("connection refused")

	_, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "What is a FBC sweep?",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
}

func TestChatRetrievalFailureFailsRequest(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{})
	fx.uow.embeddings.searchErr = errors.New("pgvector index missing")

	_, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "What causes impulse noise?",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindRetrieval, apperror.KindOf(err))
	assert.Empty(t, fx.uow.chatLogs.turns)
}

func TestChatCacheFailureDoesNotFailRequest(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Start with the upstream spectrum.",
		titleResult:  "Upstream Spectrum Analysis",
	})
	fx.cache.pushErr = errors.New("redis down")
	fx.cache.mirrorErr = errors.New("redis down")

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "Where do I start a noise investigation?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Start with the upstream spectrum.", res.Answer)
	require.Len(t, fx.uow.chatLogs.turns, 1)
	// The title still lands in the store even when the mirror fails.
	require.NotNil(t, fx.uow.titles.titles[res.SessionId])
}

func TestChatEchoesRequestedModel(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{
		answerResult: "Sure.",
		titleResult:  "Modulation Profiles",
	})

	res, err := fx.svc.Chat(context.Background(), &dto.ChatRequest{
		Question: "Explain modulation profiles.",
		Model:    constant.ModelGPT4o,
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ModelGPT4o, res.Model)
	require.Len(t, fx.uow.chatLogs.turns, 1)
	assert.Equal(t, constant.ModelGPT4o, fx.uow.chatLogs.turns[0].Model)
}

func TestGetChatHistoryAlternatesRoles(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{})
	fx.uow.chatLogs.turns = []*entity.ChatTurn{
		{SessionId: "s", UserQuery: "q1", Response: "a1"},
		{SessionId: "s", UserQuery: "q2", Response: "a2"},
	}

	messages, err := fx.svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "q1", messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, messages[1].Role)
	assert.Equal(t, "a1", messages[1].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[2].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, messages[3].Role)
}

func TestGetChatHistoryServesCompleteCacheCopy(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{})
	fx.uow.chatLogs.turns = []*entity.ChatTurn{
		{SessionId: "s", UserQuery: "q1", Response: "a1"},
	}
	fx.cache.conversation = []*cache.CachedMessage{
		{Role: constant.ChatMessageRoleUser, Content: "q1 cached"},
		{Role: constant.ChatMessageRoleAssistant, Content: "a1 cached"},
	}

	messages, err := fx.svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "q1 cached", messages[0].Content)
	assert.Equal(t, "a1 cached", messages[1].Content)
}

func TestGetChatHistoryFallsBackWhenCacheIncomplete(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{})
	fx.uow.chatLogs.turns = []*entity.ChatTurn{
		{SessionId: "s", UserQuery: "q1", Response: "a1"},
		{SessionId: "s", UserQuery: "q2", Response: "a2"},
	}
	// Stale mirror: only the first turn ever reached the cache.
	fx.cache.conversation = []*cache.CachedMessage{
		{Role: constant.ChatMessageRoleUser, Content: "q1 cached"},
		{Role: constant.ChatMessageRoleAssistant, Content: "a1 cached"},
	}

	messages, err := fx.svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, "q1", messages[0].Content)
	assert.Equal(t, "a2", messages[3].Content)
}

func TestGetChatHistoryFallsBackWhenCacheUnavailable(t *testing.T) {
	fx := newChatFixture(&fakeLLMProvider{})
	fx.uow.chatLogs.turns = []*entity.ChatTurn{
		{SessionId: "s", UserQuery: "q1", Response: "a1"},
	}
	fx.cache.conversationErr = errors.New("redis down")

	messages, err := fx.svc.GetChatHistory(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "q1", messages[0].Content)
}
