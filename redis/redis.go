package redis

import (
	"fmt"
	"time"

	"github.com/fogrup/fogrup-backend/env"
	"github.com/gomodule/redigo/redis"
)

const onlineTTL = 300 // seconds

var pool *redis.Pool

func Connect() {
	pool = &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", env.REDIS_CONN)
		},
	}
}

func onlineKey(memberID uint) string {
	return fmt.Sprintf("online:%d", memberID)
}

// SetOnline marks a member online with a TTL so a crashed server
// never leaves a stale flag behind.
func SetOnline(memberID uint) error {
	c := pool.Get()
	defer c.Close()
	_, err := c.Do("SETEX", onlineKey(memberID), onlineTTL, 1)
	return err
}

func SetOffline(memberID uint) error {
	c := pool.Get()
	defer c.Close()
	_, err := c.Do("DEL", onlineKey(memberID))
	return err
}

func IsOnline(memberID uint) bool {
	if pool == nil {
		return false
	}
	c := pool.Get()
	defer c.Close()
	v, err := redis.Bool(c.Do("EXISTS", onlineKey(memberID)))
	if err != nil {
		return false
	}
	return v
}
