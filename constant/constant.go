package constant

const (
	EmptyString = ""
)

// 会话相关默认值
const (
	// DefaultSessionTTLSeconds 会话过期时间，默认24小时
	DefaultSessionTTLSeconds = 3600 * 24

	// DefaultHistoryTurns 生成回复时携带的最近历史条数（不含当前提问）
	DefaultHistoryTurns = 5

	// SessionMetaLastIntent 会话元数据键：最近一次识别的意图
	SessionMetaLastIntent = "last_intent"
)

// 检索相关默认值
const (
	// DefaultTopK 检索返回的文档数量
	DefaultTopK = 5

	// DefaultMultiSearchTopK 跨库检索时每个向量库返回的文档数量
	DefaultMultiSearchTopK = 3

	// DefaultBackfillRatio 主库结果低于 topK 的该比例时触发补充检索
	DefaultBackfillRatio = 0.6

	// DefaultExpandMaxLen 短查询扩展的长度阈值（字符数）
	DefaultExpandMaxLen = 10

	// DefaultRerankPreviewLen 重排时每个文档预览的最大长度（字符数）
	DefaultRerankPreviewLen = 300

	// DefaultContextBudget 拼接进提示词的检索上下文最大长度（字符数）
	DefaultContextBudget = 2500
)
