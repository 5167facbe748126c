package embedding

import "sync"

// LRUCache embedding 向量缓存，key 为原始文本
type LRUCache struct {
	capacity int
	cache    map[string]*cacheNode
	head     *cacheNode
	tail     *cacheNode
	mu       sync.Mutex
}

type cacheNode struct {
	key   string
	value []float64
	prev  *cacheNode
	next  *cacheNode
}

// NewLRUCache 创建新的 LRU 缓存
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = LRUCacheCapacity
	}
	head := &cacheNode{}
	tail := &cacheNode{}
	head.next = tail
	tail.prev = head
	return &LRUCache{
		capacity: capacity,
		cache:    make(map[string]*cacheNode),
		head:     head,
		tail:     tail,
	}
}

// Get 从缓存获取，命中时移动到头部
func (lru *LRUCache) Get(key string) ([]float64, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.cache[key]
	if !ok {
		return nil, false
	}

	lru.moveToHead(node)
	return node.value, true
}

// Put 放入缓存，超过容量时淘汰尾部节点
func (lru *LRUCache) Put(key string, value []float64) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if node, ok := lru.cache[key]; ok {
		node.value = value
		lru.moveToHead(node)
		return
	}

	node := &cacheNode{
		key:   key,
		value: value,
	}
	lru.cache[key] = node
	lru.addToHead(node)

	if len(lru.cache) > lru.capacity {
		lru.removeTail()
	}
}

// Len 当前缓存条数
func (lru *LRUCache) Len() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return len(lru.cache)
}

func (lru *LRUCache) addToHead(node *cacheNode) {
	node.prev = lru.head
	node.next = lru.head.next
	lru.head.next.prev = node
	lru.head.next = node
}

func (lru *LRUCache) removeNode(node *cacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (lru *LRUCache) moveToHead(node *cacheNode) {
	lru.removeNode(node)
	lru.addToHead(node)
}

func (lru *LRUCache) removeTail() {
	node := lru.tail.prev
	lru.removeNode(node)
	delete(lru.cache, node.key)
}
