package rediscache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	redisclient "github.com/go-redis/redis/v8"
	"github.com/oweek/raceday-backend/internal/logging"
)

var redisConn *Connection
var ctx context.Context

type lazyConnection func() *redisclient.Client

//Connection Contains lazy Redis connection
type Connection struct {
	inner lazyConnection
}

func init() {
	ctx = context.Background()

	connect := func() *redisclient.Client {
		logger := logging.FromContext(ctx).Named("rediscache.connect")

		logger.Debug("Connecting to Redis")

		addr, ok := os.LookupEnv("REDIS_ADDR")
		if !ok {
			panic("REDIS_ADDR env missing")
		}

		client := redisclient.NewClient(&redisclient.Options{
			Addr: addr,
			DB:   0,
		})

		_, err := client.Ping(ctx).Result()
		if err != nil {
			err := fmt.Errorf("Connection to Redis failed:%v", err)
			logger.Error(err)
			panic(err)
		}

		logger.Debugf("Connected to Redis at %v", addr)

		return client
	}

	var conn *redisclient.Client
	var once sync.Once

	initInner := func() *redisclient.Client {
		once.Do(func() {
			conn = connect()
		})
		return conn
	}

	redisConn = &Connection{
		inner: initInner,
	}
}

//Client Redis client abstraction
type Client interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, ttl time.Duration) error
	Del(keys ...string) error
}

//ClientImpl Real Redis client
type ClientImpl struct{}

//Get Get value from Redis
func (r ClientImpl) Get(key string) (string, error) {
	return redisConn.inner().Get(ctx, key).Result()
}

//Set Set value to Redis. TTL value 0 means forever.
func (r ClientImpl) Set(key string, value interface{}, ttl time.Duration) error {
	return redisConn.inner().Set(ctx, key, value, ttl).Err()
}

//Del Delete keys from Redis.
func (r ClientImpl) Del(keys ...string) error {
	return redisConn.inner().Del(ctx, keys...).Err()
}

//IsMiss Reports whether the error from Get means the key was absent.
func IsMiss(err error) bool {
	return err == redisclient.Nil
}

//MockClient In-memory Redis client for unit tests.
type MockClient struct {
	Values map[string]string
}

//Get Get value from the in-memory map.
func (r *MockClient) Get(key string) (string, error) {
	v, ok := r.Values[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

//Set Set value to the in-memory map. TTL is ignored.
func (r *MockClient) Set(key string, value interface{}, ttl time.Duration) error {
	if r.Values == nil {
		r.Values = map[string]string{}
	}
	r.Values[key] = fmt.Sprintf("%v", value)
	return nil
}

//Del Delete keys from the in-memory map.
func (r *MockClient) Del(keys ...string) error {
	for _, k := range keys {
		delete(r.Values, k)
	}
	return nil
}
