package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nhgoodboy/customer-service-agent/config"
)

var (
	instance *RedisClient
	once     sync.Once
)

type RedisClient struct {
	*redis.Client
	conf *RedisConfig
}

// NewRedisSingleClient 创建单节点模式客户端对象
func NewRedisSingleClient(cfg *RedisConfig) (*redis.Client, error) {
	return newRedisSingleApi(cfg)
}

func CloseRedisSingle(r *redis.Client) {
	if r != nil {
		if err := r.Close(); err != nil {
			log.Println("redis close error:", err.Error())
		}
	}
}

// 单节点模式
func newRedisSingleApi(cfg *RedisConfig) (*redis.Client, error) {
	cfg.DefaultConfig()
	r := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  time.Second * time.Duration(cfg.DialTimeout),
		ReadTimeout:  time.Second * time.Duration(cfg.ReadTimeout),
		WriteTimeout: time.Second * time.Duration(cfg.WriteTimeout),
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxConnAge:   time.Minute * time.Duration(cfg.MaxConnAge),
		PoolTimeout:  time.Second * time.Duration(cfg.PoolTimeout),
		IdleTimeout:  time.Second * time.Duration(cfg.IdleTimeout),
		DB:           cfg.Db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.Ping(ctx).Result()
	if err != nil {
		log.Println(err.Error())
		return nil, err
	}
	return r, err
}

func GetInstance() *RedisClient {
	once.Do(func() {
		conf := &RedisConfig{
			Host:     config.GetInstance().GetString(config.RedisClientHost),
			Password: config.GetInstance().GetString(config.RedisClientPassword),
			Db:       config.GetInstance().GetInt(config.RedisClientDb),
		}
		client, err := newRedisSingleApi(conf)
		if err != nil {
			panic(err)
		}
		instance = &RedisClient{conf: conf, Client: client}
	})
	return instance
}
