package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
)

// Store 会话存储
// 实现需保证同一会话的变更串行化，避免并发请求交错写入历史
type Store interface {
	// Resolve 校验并修复会话ID：空串、非法占位值或未知ID都会换成新生成的ID并创建会话
	Resolve(ctx context.Context, sessionID string) (string, error)
	// Create 创建新会话并返回ID
	Create(ctx context.Context) (string, error)
	// AddMessage 向会话追加一条消息
	AddMessage(ctx context.Context, sessionID, role, content string) error
	// History 返回会话的全部消息
	History(ctx context.Context, sessionID string) ([]model.Message, error)
	// Clear 清空会话历史但保留会话本身
	Clear(ctx context.Context, sessionID string) bool
	// Delete 删除整个会话
	Delete(ctx context.Context, sessionID string) bool
	// SetMetadata 设置会话元数据
	SetMetadata(ctx context.Context, sessionID, key string, value interface{}) error
	// GetMetadata 读取会话元数据
	GetMetadata(ctx context.Context, sessionID, key string) (interface{}, bool)
	// Context 返回会话上下文信息
	Context(ctx context.Context, sessionID string) model.SessionContext
}

// invalidSessionIDs 前端丢失状态时会把这些字面量当作会话ID传上来
var invalidSessionIDs = map[string]bool{
	"":          true,
	"undefined": true,
	"null":      true,
	"None":      true,
}

// IsInvalidSessionID 是否需要重新生成会话ID
func IsInvalidSessionID(sessionID string) bool {
	return invalidSessionIDs[sessionID]
}

// session 单个会话的数据
type session struct {
	id         string
	createdAt  time.Time
	lastActive time.Time
	history    []model.Message
	metadata   map[string]interface{}
	mu         sync.Mutex // 串行化同一会话的变更
}

// MemoryStore 进程内会话存储
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *MemoryStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	if IsInvalidSessionID(sessionID) {
		newID := uuid.New().String()
		log.Warnf("invalid session id %q, replaced with %s", sessionID, newID)
		sessionID = newID
	}
	s.getOrCreate(sessionID)
	return sessionID, nil
}

func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	sessionID := uuid.New().String()
	s.getOrCreate(sessionID)
	log.Infof("created session %s", sessionID)
	return sessionID, nil
}

func (s *MemoryStore) AddMessage(ctx context.Context, sessionID, role, content string) error {
	sess := s.getOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.history = append(sess.history, model.Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
	sess.lastActive = s.now()
	return nil
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	sess := s.getOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	history := make([]model.Message, len(sess.history))
	copy(history, sess.history)
	return history, nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) bool {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		log.Warnf("clear non-existent session %s", sessionID)
		return false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.history = nil
	sess.lastActive = s.now()
	log.Infof("cleared session history %s", sessionID)
	return true
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		log.Warnf("delete non-existent session %s", sessionID)
		return false
	}
	delete(s.sessions, sessionID)
	log.Infof("deleted session %s", sessionID)
	return true
}

func (s *MemoryStore) SetMetadata(ctx context.Context, sessionID, key string, value interface{}) error {
	sess := s.getOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.metadata == nil {
		sess.metadata = make(map[string]interface{})
	}
	sess.metadata[key] = value
	sess.lastActive = s.now()
	return nil
}

func (s *MemoryStore) GetMetadata(ctx context.Context, sessionID, key string) (interface{}, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	value, ok := sess.metadata[key]
	return value, ok
}

func (s *MemoryStore) Context(ctx context.Context, sessionID string) model.SessionContext {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return model.SessionContext{Exists: false}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	// 已过期但尚未被清理的会话对外视为不存在
	if s.now().Sub(sess.lastActive) > s.ttl {
		return model.SessionContext{Exists: false}
	}
	return model.SessionContext{
		Exists:       true,
		SessionID:    sessionID,
		CreatedAt:    sess.createdAt,
		LastActive:   sess.lastActive,
		MessageCount: len(sess.history),
		ExpiresAt:    sess.lastActive.Add(s.ttl),
	}
}

// getOrCreate 获取或创建会话，同时顺手清理过期会话
func (s *MemoryStore) getOrCreate(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupExpiredLocked()

	sess, ok := s.sessions[sessionID]
	if !ok {
		now := s.now()
		sess = &session{
			id:         sessionID,
			createdAt:  now,
			lastActive: now,
			metadata:   make(map[string]interface{}),
		}
		s.sessions[sessionID] = sess
		log.Infof("created session %s", sessionID)
	} else {
		sess.mu.Lock()
		sess.lastActive = s.now()
		sess.mu.Unlock()
	}
	return sess
}

func (s *MemoryStore) cleanupExpiredLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActive) > s.ttl {
			delete(s.sessions, id)
			log.Infof("expired session %s removed", id)
		}
	}
}
