package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	storageBackendKey = "STORAGE_BACKEND"
	storagePathKey    = "STORAGE_PATH"
	redisAddrKey      = "REDIS_ADDR"
	redisPasswordKey  = "REDIS_PASSWORD"
	redisDBKey        = "REDIS_DB"
)

type Storage struct {
	v *viper.Viper
}

var _ StorageConfig = Storage{}

func (s Storage) GetStorageBackend() string {
	return strings.ToLower(s.v.GetString(storageBackendKey))
}

func (s Storage) GetStoragePath() string {
	return s.v.GetString(storagePathKey)
}

func (s Storage) GetRedisAddr() string {
	return s.v.GetString(redisAddrKey)
}

func (s Storage) GetRedisPassword() string {
	return s.v.GetString(redisPasswordKey)
}

func (s Storage) GetRedisDB() int {
	return s.v.GetInt(redisDBKey)
}
