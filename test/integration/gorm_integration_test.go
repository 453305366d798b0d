package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnm-assistant-be/internal/entity"
	"pnm-assistant-be/internal/repository/specification"
	"pnm-assistant-be/internal/repository/unitofwork"
	"pnm-assistant-be/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatLogRepository())
	assert.NotNil(t, uow.ConversationTitleRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	ctx := context.Background()
	sessionId := "integration-" + uuid.NewString()

	// Everything below writes under one throwaway session id.
	t.Cleanup(func() {
		gormDB.Exec("DELETE FROM chat_logs WHERE session_id = ?", sessionId)
		gormDB.Exec("DELETE FROM conversation_titles WHERE session_id = ?", sessionId)
	})

	t.Run("Turns come back in created_at order", func(t *testing.T) {
		base := time.Now().Add(-time.Minute)
		for i := 0; i < 3; i++ {
			turn := &entity.ChatTurn{
				Id:        uuid.New(),
				SessionId: sessionId,
				UserQuery: fmt.Sprintf("question %d", i),
				Response:  fmt.Sprintf("answer %d", i),
				Model:     "qwen3",
				Metadata:  map[string]interface{}{"sliding_summary": fmt.Sprintf("summary %d", i)},
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}
			require.NoError(t, uow.ChatLogRepository().Create(ctx, turn))
		}

		turns, err := uow.ChatLogRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.OrderBy{Field: "created_at"},
		)
		require.NoError(t, err)
		require.Len(t, turns, 3)

		for i, turn := range turns {
			assert.Equal(t, fmt.Sprintf("question %d", i), turn.UserQuery)
		}
	})

	t.Run("JSONB metadata round-trips", func(t *testing.T) {
		turns, err := uow.ChatLogRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.OrderBy{Field: "created_at"},
		)
		require.NoError(t, err)
		require.NotEmpty(t, turns)

		assert.Equal(t, "summary 0", turns[0].Metadata["sliding_summary"])
		assert.Equal(t, "summary 2", turns[len(turns)-1].Metadata["sliding_summary"])
	})

	t.Run("Title upsert overwrites the prior row", func(t *testing.T) {
		first := &entity.ConversationTitle{
			SessionId: sessionId,
			Title:     "New Chat",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.ConversationTitleRepository().Upsert(ctx, first))

		second := &entity.ConversationTitle{
			SessionId: sessionId,
			Title:     "Upstream SNR Troubleshooting",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.ConversationTitleRepository().Upsert(ctx, second))

		stored, err := uow.ConversationTitleRepository().Find(ctx, sessionId)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Upstream SNR Troubleshooting", stored.Title)
		assert.Equal(t, entity.TitleStatusReal, stored.Status)

		var count int64
		gormDB.Table("conversation_titles").Where("session_id = ?", sessionId).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Missing title row returns nil without error", func(t *testing.T) {
		stored, err := uow.ConversationTitleRepository().Find(ctx, "no-such-session-"+uuid.NewString())
		assert.NoError(t, err)
		assert.Nil(t, stored)
	})
}
