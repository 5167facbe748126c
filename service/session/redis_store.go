package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
)

const (
	sessionKeyPrefix = "cs:session:"

	fieldCreatedAt  = "created_at"
	fieldLastActive = "last_active"
)

// RedisStore 基于 redis 的会话存储，多实例部署时共享会话状态
// TTL 交给 redis 过期机制，同一会话的变更靠 redis 单线程命令串行化
type RedisStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore 创建 redis 会话存储
func NewRedisStore(client goredis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func historyKey(sessionID string) string {
	return sessionKeyPrefix + sessionID + ":history"
}

func metaKey(sessionID string) string {
	return sessionKeyPrefix + sessionID + ":meta"
}

func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	if IsInvalidSessionID(sessionID) {
		newID := uuid.New().String()
		log.Warnf("invalid session id %q, replaced with %s", sessionID, newID)
		sessionID = newID
	}
	if err := s.touch(ctx, sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	sessionID := uuid.New().String()
	if err := s.touch(ctx, sessionID); err != nil {
		return "", err
	}
	log.Infof("created session %s", sessionID)
	return sessionID, nil
}

func (s *RedisStore) AddMessage(ctx context.Context, sessionID, role, content string) error {
	if err := s.touch(ctx, sessionID); err != nil {
		return err
	}

	data, err := json.Marshal(model.Message{Role: role, Content: content, Timestamp: s.now()})
	if err != nil {
		return errors.WithStack(err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, historyKey(sessionID), data)
	pipe.Expire(ctx, historyKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "append session message")
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	items, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "load session history")
	}

	history := make([]model.Message, 0, len(items))
	for _, item := range items {
		var msg model.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			log.Warnf("skip malformed history entry in session %s: %v", sessionID, err)
			continue
		}
		history = append(history, msg)
	}
	return history, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) bool {
	exists, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil || exists == 0 {
		log.Warnf("clear non-existent session %s", sessionID)
		return false
	}

	if err := s.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		log.Errorf("clear session %s history failed: %v", sessionID, err)
		return false
	}
	log.Infof("cleared session history %s", sessionID)
	return true
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) bool {
	deleted, err := s.client.Del(ctx, sessionKey(sessionID), historyKey(sessionID), metaKey(sessionID)).Result()
	if err != nil {
		log.Errorf("delete session %s failed: %v", sessionID, err)
		return false
	}
	if deleted == 0 {
		log.Warnf("delete non-existent session %s", sessionID)
		return false
	}
	log.Infof("deleted session %s", sessionID)
	return true
}

func (s *RedisStore) SetMetadata(ctx context.Context, sessionID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.WithStack(err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, metaKey(sessionID), key, data)
	pipe.Expire(ctx, metaKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "set session metadata")
	}
	return nil
}

func (s *RedisStore) GetMetadata(ctx context.Context, sessionID, key string) (interface{}, bool) {
	data, err := s.client.HGet(ctx, metaKey(sessionID), key).Result()
	if err != nil {
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Context(ctx context.Context, sessionID string) model.SessionContext {
	fields, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil || len(fields) == 0 {
		return model.SessionContext{Exists: false}
	}

	messageCount, err := s.client.LLen(ctx, historyKey(sessionID)).Result()
	if err != nil {
		messageCount = 0
	}

	createdAt := time.Unix(parseUnix(fields[fieldCreatedAt]), 0)
	lastActive := time.Unix(parseUnix(fields[fieldLastActive]), 0)

	return model.SessionContext{
		Exists:       true,
		SessionID:    sessionID,
		CreatedAt:    createdAt,
		LastActive:   lastActive,
		MessageCount: int(messageCount),
		ExpiresAt:    lastActive.Add(s.ttl),
	}
}

// touch 创建会话骨架（如不存在）并刷新活跃时间与过期时间
func (s *RedisStore) touch(ctx context.Context, sessionID string) error {
	now := s.now().Unix()

	pipe := s.client.TxPipeline()
	pipe.HSetNX(ctx, sessionKey(sessionID), fieldCreatedAt, now)
	pipe.HSet(ctx, sessionKey(sessionID), fieldLastActive, now)
	pipe.Expire(ctx, sessionKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "touch session")
	}
	return nil
}

func parseUnix(value string) int64 {
	var ts int64
	if _, err := fmt.Sscanf(value, "%d", &ts); err != nil {
		return 0
	}
	return ts
}
