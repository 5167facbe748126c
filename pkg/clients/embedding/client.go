package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"
	"github.com/wuwie1/go-tools/env"

	"github.com/nhgoodboy/customer-service-agent/config"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/llm_model"
)

const (
	// MaxBatchSize 每批最多处理的数量
	MaxBatchSize = 64
	// LRUCacheCapacity LRU 缓存容量
	LRUCacheCapacity = 5000

	clientNameEmbedding = "embedding"
)

var (
	instance *Client
	once     sync.Once
	initErr  error
)

// Embedder 文本向量化能力
// 知识库导入和查询检索都通过该接口获取向量，测试时可替换为假实现
type Embedder interface {
	GetTextEmbedding(ctx context.Context, text string) ([]float64, error)
	GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Client Embedding 客户端，带 LRU 缓存和批量切分
type Client struct {
	client    openai.Client
	modelName string
	cache     *LRUCache
	retry     *llm_model.RetryPolicy
}

// GetInstance 获取 Embedding 客户端单例
func GetInstance() (*Client, error) {
	once.Do(func() {
		cfg := config.GetInstance()

		apiKey := env.GetModelApiKey()
		if apiKey == "" {
			initErr = fmt.Errorf("model api key is required")
			return
		}

		modelName := cfg.GetString(config.EmbeddingConfigKeyModelName)
		if modelName == "" {
			initErr = fmt.Errorf("%s is required", config.EmbeddingConfigKeyModelName)
			return
		}

		instance = NewClient(apiKey, cfg.GetString(config.EmbeddingConfigKeyBaseURL), modelName)
	})

	return instance, initErr
}

// NewClient 创建 Embedding 客户端
// baseURL 为空时使用官方地址，非空时用于兼容其他 OpenAI API 兼容的服务
func NewClient(apiKey, baseURL, modelName string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:    openai.NewClient(opts...),
		modelName: modelName,
		cache:     NewLRUCache(LRUCacheCapacity),
		retry:     llm_model.DefaultRetryPolicy(),
	}
}

// GetTextEmbedding 获取单个文本的 Embedding 向量（带缓存）
func (c *Client) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := c.GetTextEmbeddingBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embeddings[0], nil
}

// GetTextEmbeddingBatch 批量获取文本的 Embedding 向量（带批量切分、重试和缓存）
func (c *Client) GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	// 检查缓存并收集需要请求的文本
	type textWithIndex struct {
		text  string
		index int
	}
	needRequest := make([]textWithIndex, 0)
	result := make([][]float64, len(texts))
	cacheHits := 0

	for i, text := range texts {
		if cached, ok := c.cache.Get(text); ok {
			result[i] = cached
			cacheHits++
		} else {
			needRequest = append(needRequest, textWithIndex{text: text, index: i})
		}
	}

	if len(needRequest) == 0 {
		log.Debugf("all embeddings retrieved from cache (count: %d)", len(texts))
		return result, nil
	}

	// 批量切分处理
	for i := 0; i < len(needRequest); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(needRequest) {
			end = len(needRequest)
		}

		batch := needRequest[i:end]
		batchTexts := make([]string, len(batch))
		for j, item := range batch {
			batchTexts[j] = item.text
		}

		var embeddings [][]float64
		err := c.retry.Do(ctx, clientNameEmbedding, func() error {
			var callErr error
			embeddings, callErr = c.embedBatchOnce(ctx, batchTexts)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get embeddings for batch %d-%d: %w", i, end, err)
		}

		// 填充结果并更新缓存
		for j, item := range batch {
			if j < len(embeddings) {
				result[item.index] = embeddings[j]
				c.cache.Put(item.text, embeddings[j])
			}
		}
	}

	log.Debugf("embedding batch completed: total=%d, cache_hits=%d, requests=%d",
		len(texts), cacheHits, len(needRequest))

	return result, nil
}

// embedBatchOnce 单次批量获取 Embedding（不重试）
func (c *Client) embedBatchOnce(ctx context.Context, texts []string) ([][]float64, error) {
	input := openai.EmbeddingNewParamsInputUnion{
		OfArrayOfStrings: texts,
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.modelName),
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	result := make([][]float64, 0, len(resp.Data))
	for _, item := range resp.Data {
		result = append(result, item.Embedding)
	}

	return result, nil
}
