package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pnm-assistant-be/internal/entity"
)

// ThreadRepository mirrors thread titles and full turns into Redis for
// low-latency sidebar reads. It is a write-only sync target: the transcript
// store stays authoritative, and sentinel titles are refused at this boundary.
type ThreadRepository struct {
	rdb *redis.Client
}

func NewThreadRepository(rdb *redis.Client) *ThreadRepository {
	return &ThreadRepository{rdb: rdb}
}

type Thread struct {
	SessionId string  `json:"session_id"`
	Title     string  `json:"title"`
	Timestamp float64 `json:"timestamp"`
}

type CachedMessage struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

func threadKey(sessionId string) string {
	return fmt.Sprintf("thread:%s", sessionId)
}

func chatKey(sessionId string) string {
	return fmt.Sprintf("chat:%s", sessionId)
}

// MirrorThread writes the thread hash and bumps the sorted index. A no-op for
// sentinel titles so placeholder names never reach the sidebar.
func (r *ThreadRepository) MirrorThread(ctx context.Context, sessionId, title string, timestamp time.Time) error {
	if entity.TitleStatusOf(title) != entity.TitleStatusReal {
		return nil
	}

	score := float64(timestamp.UnixNano()) / float64(time.Second)

	if err := r.rdb.HSet(ctx, threadKey(sessionId), map[string]interface{}{
		"title":     title,
		"timestamp": score,
	}).Err(); err != nil {
		return err
	}

	return r.rdb.ZAdd(ctx, "thread_index", redis.Z{
		Score:  score,
		Member: sessionId,
	}).Err()
}

// ListThreads returns sidebar threads newest first.
func (r *ThreadRepository) ListThreads(ctx context.Context) ([]*Thread, error) {
	sessionIds, err := r.rdb.ZRevRange(ctx, "thread_index", 0, -1).Result()
	if err != nil {
		return nil, err
	}

	threads := make([]*Thread, 0, len(sessionIds))
	for _, sid := range sessionIds {
		data, err := r.rdb.HGetAll(ctx, threadKey(sid)).Result()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}

		timestamp, _ := strconv.ParseFloat(data["timestamp"], 64)
		title := data["title"]
		if title == "" {
			title = "Untitled"
		}

		threads = append(threads, &Thread{
			SessionId: sid,
			Title:     title,
			Timestamp: timestamp,
		})
	}
	return threads, nil
}

// PushTurn appends the user and assistant messages of a completed turn to the
// session's message list.
func (r *ThreadRepository) PushTurn(ctx context.Context, sessionId, userQuery, response string) error {
	timestamp := float64(time.Now().UnixNano()) / float64(time.Second)

	userMsg, err := json.Marshal(CachedMessage{Role: "user", Content: userQuery, Timestamp: timestamp})
	if err != nil {
		return err
	}
	assistantMsg, err := json.Marshal(CachedMessage{Role: "assistant", Content: response, Timestamp: timestamp})
	if err != nil {
		return err
	}

	return r.rdb.RPush(ctx, chatKey(sessionId), userMsg, assistantMsg).Err()
}

// FullConversation returns every cached message of a session in order. The
// history read path serves it only after checking the copy is complete
// against the transcript store, which stays authoritative.
func (r *ThreadRepository) FullConversation(ctx context.Context, sessionId string) ([]*CachedMessage, error) {
	raw, err := r.rdb.LRange(ctx, chatKey(sessionId), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*CachedMessage, 0, len(raw))
	for _, item := range raw {
		var msg CachedMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}
