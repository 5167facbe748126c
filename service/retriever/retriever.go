package retriever

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nhgoodboy/customer-service-agent/constant"
	"github.com/nhgoodboy/customer-service-agent/model"
	"github.com/nhgoodboy/customer-service-agent/pkg/clients/llm_model"
	"github.com/nhgoodboy/customer-service-agent/pkg/str"
)

// Options 检索参数，零值字段回落到默认值
type Options struct {
	TopK             int     // 检索返回的文档数量
	BackfillRatio    float64 // 主库结果低于 TopK 的该比例时触发补充检索
	ExpandMaxLen     int     // 短查询扩展的长度阈值（字符数）
	RerankPreviewLen int     // 重排时每个文档预览的最大长度（字符数）
}

func (o *Options) normalize() {
	if o.TopK <= 0 {
		o.TopK = constant.DefaultTopK
	}
	if o.BackfillRatio <= 0 || o.BackfillRatio > 1 {
		o.BackfillRatio = constant.DefaultBackfillRatio
	}
	if o.ExpandMaxLen <= 0 {
		o.ExpandMaxLen = constant.DefaultExpandMaxLen
	}
	if o.RerankPreviewLen <= 0 {
		o.RerankPreviewLen = constant.DefaultRerankPreviewLen
	}
}

// Searcher 单个领域向量库的检索能力
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]model.Document, error)
}

// relatedKeywordIntents 补充检索时按查询关键词关联的次级分区，顺序即合并顺序
var relatedKeywordIntents = []struct {
	keywords []string
	intent   model.IntentType
}{
	{constant.OrderKeywords, model.IntentOrderStatus},
	{[]string{"退货", "退款", "return", "refund"}, model.IntentReturnRefund},
	{[]string{"商品", "产品", "product"}, model.IntentProductInquiry},
}

// Service 按意图路由的多分区检索器
type Service struct {
	stores    map[model.IntentType]Searcher
	generator llm_model.Generator
	opts      Options
}

// NewService 创建检索器
// stores 以四个业务意图为键；unknown 或缺失的意图回落到通用分区
func NewService(stores map[model.IntentType]Searcher, generator llm_model.Generator, opts Options) *Service {
	opts.normalize()
	return &Service{
		stores:    stores,
		generator: generator,
		opts:      opts,
	}
}

// ExpandQuery 短查询扩展
// 查询长度低于阈值且包含触发词时追加同义词，提升小语料下的召回
func (s *Service) ExpandQuery(query string) string {
	if str.RuneLen(query) >= s.opts.ExpandMaxLen {
		return query
	}

	for trigger, synonyms := range constant.QueryExpansionTriggers {
		if strings.Contains(query, trigger) {
			expanded := query + " " + strings.Join(synonyms, " ")
			log.Debugf("query expanded: %q -> %q", query, expanded)
			return expanded
		}
	}
	return query
}

// Retrieve 按意图检索相关文档
// 主分区结果稀疏时向通用分区和关键词关联分区补充检索；
// 单个分区失败只记录日志按空结果处理，不影响整体调用
func (s *Service) Retrieve(ctx context.Context, query string, intent model.IntentType) model.RetrievalResult {
	store := s.storeFor(intent)
	searchQuery := s.ExpandQuery(query)

	docs, err := store.Search(ctx, searchQuery, s.opts.TopK)
	if err != nil {
		log.Errorf("primary partition %s search failed: %v", intent, err)
		docs = nil
	}

	if float64(len(docs)) < s.opts.BackfillRatio*float64(s.opts.TopK) {
		docs = s.backfill(ctx, searchQuery, intent, docs)
	}

	if len(docs) >= 3 {
		docs = s.Rerank(ctx, query, docs)
	}

	return model.RetrievalResult{
		Documents: docs,
		Sources:   collectSources(docs),
		Query:     query,
	}
}

// MultiStoreSearch 跨所有业务分区的探索式检索
func (s *Service) MultiStoreSearch(ctx context.Context, query string, topK int) model.RetrievalResult {
	if topK <= 0 {
		topK = constant.DefaultMultiSearchTopK
	}

	results := s.searchPartitions(ctx, s.ExpandQuery(query), model.AllIntents, topK)

	merged := make([]model.Document, 0)
	seen := make(map[string]bool)
	for _, partitionDocs := range results {
		merged = appendDeduped(merged, partitionDocs, seen)
	}

	if len(merged) >= 3 {
		merged = s.Rerank(ctx, query, merged)
	}

	return model.RetrievalResult{
		Documents: merged,
		Sources:   collectSources(merged),
		Query:     query,
	}
}

// backfill 主分区结果稀疏时的补充检索
// 先查通用分区，再按关键词映射查关联分区，各取 topK/2，合并去重后截断到 topK
func (s *Service) backfill(ctx context.Context, query string, primary model.IntentType, primaryDocs []model.Document) []model.Document {
	perPartition := s.opts.TopK / 2
	if perPartition < 1 {
		perPartition = 1
	}

	secondary := make([]model.IntentType, 0, len(relatedKeywordIntents)+1)
	if s.effectiveIntent(primary) != model.IntentGeneralInquiry {
		secondary = append(secondary, model.IntentGeneralInquiry)
	}
	for _, related := range relatedKeywordIntents {
		if related.intent == s.effectiveIntent(primary) || containsIntent(secondary, related.intent) {
			continue
		}
		if matchesAny(query, related.keywords) {
			secondary = append(secondary, related.intent)
		}
	}

	if len(secondary) == 0 {
		return primaryDocs
	}

	log.Infof("backfill triggered for intent %s: %d primary docs, secondary partitions %v",
		primary, len(primaryDocs), secondary)

	results := s.searchPartitions(ctx, query, secondary, perPartition)

	seen := make(map[string]bool)
	merged := appendDeduped(make([]model.Document, 0, s.opts.TopK), primaryDocs, seen)
	for _, partitionDocs := range results {
		merged = appendDeduped(merged, partitionDocs, seen)
	}

	if len(merged) > s.opts.TopK {
		merged = merged[:s.opts.TopK]
	}
	return merged
}

// searchPartitions 并发查询多个分区，结果按传入顺序返回，单分区失败按空结果处理
func (s *Service) searchPartitions(ctx context.Context, query string, intents []model.IntentType, k int) [][]model.Document {
	results := make([][]model.Document, len(intents))

	var wg sync.WaitGroup
	for i, intent := range intents {
		wg.Add(1)
		go func(i int, intent model.IntentType) {
			defer wg.Done()
			docs, err := s.storeFor(intent).Search(ctx, query, k)
			if err != nil {
				log.Errorf("partition %s search failed: %v", intent, err)
				return
			}
			results[i] = docs
		}(i, intent)
	}
	wg.Wait()

	return results
}

func (s *Service) storeFor(intent model.IntentType) Searcher {
	if store, ok := s.stores[s.effectiveIntent(intent)]; ok {
		return store
	}
	return s.stores[model.IntentGeneralInquiry]
}

// effectiveIntent unknown 与非法意图归入通用分区
func (s *Service) effectiveIntent(intent model.IntentType) model.IntentType {
	if _, ok := s.stores[intent]; !ok || intent == model.IntentUnknown {
		return model.IntentGeneralInquiry
	}
	return intent
}

func appendDeduped(dst []model.Document, docs []model.Document, seen map[string]bool) []model.Document {
	for _, doc := range docs {
		key := doc.ContextText()
		if seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, doc)
	}
	return dst
}

func collectSources(docs []model.Document) []string {
	sources := make([]string, 0)
	seen := make(map[string]bool)
	for _, doc := range docs {
		if doc.Source == "" || seen[doc.Source] {
			continue
		}
		seen[doc.Source] = true
		sources = append(sources, doc.Source)
	}
	return sources
}

func matchesAny(query string, keywords []string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func containsIntent(intents []model.IntentType, intent model.IntentType) bool {
	for _, i := range intents {
		if i == intent {
			return true
		}
	}
	return false
}
