package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/embedding"
	"github.com/nhgoodboy/customer-service-agent/pkg/str"
)

// entry 向量库中的一条记录
type entry struct {
	doc    model.Document
	vector []float64
}

// Store 单个领域的内存向量库
// 写入通过整体替换实现，查询期间不会观察到半清空半加载的中间状态
type Store struct {
	name     string
	embedder embedding.Embedder
	chunkCfg ChunkConfig

	mu      sync.RWMutex
	entries []entry
}

// NewStore 创建向量库
func NewStore(name string, embedder embedding.Embedder) *Store {
	return &Store{
		name:     name,
		embedder: embedder,
		chunkCfg: DefaultChunkConfig(),
	}
}

// Name 向量库名称
func (s *Store) Name() string {
	return s.name
}

// Len 当前记录数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// AddDocuments 向量化并追加文档，超长的纯文本文档先切分为带重叠的块
func (s *Store) AddDocuments(ctx context.Context, docs []model.Document) error {
	entries, err := s.buildEntries(ctx, docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = append(s.entries, entries...)
	total := len(s.entries)
	s.mu.Unlock()

	log.Infof("vector store %s: added %d entries (total %d)", s.name, len(entries), total)
	return nil
}

// ReplaceAll 用给定文档重建向量库
// 新记录在锁外构建完成后一次性换入，重建期间查询仍然看到旧数据
func (s *Store) ReplaceAll(ctx context.Context, docs []model.Document) error {
	entries, err := s.buildEntries(ctx, docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	log.Infof("vector store %s: rebuilt with %d entries", s.name, len(entries))
	return nil
}

// Clear 清空向量库
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	log.Infof("vector store %s: cleared", s.name)
}

// Search 余弦相似度最近邻检索，返回按相似度降序的前 k 个文档
func (s *Store) Search(ctx context.Context, query string, k int) ([]model.Document, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	if len(entries) == 0 {
		return nil, nil
	}

	queryVector, err := s.embedder.GetTextEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	type scored struct {
		index int
		score float64
	}
	results := make([]scored, 0, len(entries))
	for i := range entries {
		results = append(results, scored{index: i, score: cosineSimilarity(queryVector, entries[i].vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	docs := make([]model.Document, 0, k)
	for _, r := range results[:k] {
		docs = append(docs, entries[r.index].doc)
	}

	log.Debugf("vector store %s: query %q returned %d documents", s.name, query, len(docs))
	return docs, nil
}

func (s *Store) buildEntries(ctx context.Context, docs []model.Document) ([]entry, error) {
	expanded := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Kind == model.DocumentPlainText && str.RuneLen(doc.Content) > s.chunkCfg.MaxSize {
			for _, chunk := range ChunkText(doc.Content, s.chunkCfg) {
				expanded = append(expanded, model.NewPlainTextDocument(chunk, doc.Source))
			}
		} else {
			expanded = append(expanded, doc)
		}
	}

	if len(expanded) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(expanded))
	for _, doc := range expanded {
		texts = append(texts, EmbeddingText(doc))
	}

	vectors, err := s.embedder.GetTextEmbeddingBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents failed: %w", err)
	}
	if len(vectors) != len(expanded) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(expanded), len(vectors))
	}

	entries := make([]entry, 0, len(expanded))
	for i := range expanded {
		entries = append(entries, entry{doc: expanded[i], vector: vectors[i]})
	}
	return entries, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
