package env

import (
	"os"

	"github.com/joho/godotenv"
)

type convertible interface {
	~[]byte | ~string
}

var (
	HS256_SECRET    []byte
	NSQD_TCP_ADDR   string
	NSQLOOKUPD_ADDR string
	DB_CONN         string
	REDIS_CONN      string
	APP_PORT        string
)

func initEnv[T convertible](dst *T, key, fallback string) {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	*dst = T(v)
}

func init() {
	godotenv.Load()
	initEnv(&HS256_SECRET, "HS256_SECRET", "")
	initEnv(&NSQD_TCP_ADDR, "NSQD_TCP_ADDR", "127.0.0.1:4150")
	initEnv(&NSQLOOKUPD_ADDR, "NSQLOOKUPD_ADDR", "127.0.0.1:4161")
	initEnv(&DB_CONN, "DB_CONN", "")
	initEnv(&REDIS_CONN, "REDIS_CONN", "127.0.0.1:6379")
	initEnv(&APP_PORT, "APP_PORT", "8080")
}
