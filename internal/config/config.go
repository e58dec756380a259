package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "ABHYASA"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetProfile() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetRefreshPath() string
	GetHTTPTimeout() time.Duration
	GetTraceHTTP() bool
}

type SessionConfig interface {
	GetInactivityWindow() time.Duration
	GetActivityCoalesce() time.Duration
}

type StorageConfig interface {
	GetStorageBackend() string
	GetStoragePath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type mainConfig struct {
	EnvVars
	API
	Session
	Storage
}

var _ Config = mainConfig{}

// New loads an optional .env file from the working directory and then reads
// ABHYASA_* environment variables over the defaults.
func New() Config {
	files := []string{".env"}
	if env := strings.ToLower(os.Getenv(envPrefix + "_ENV")); env != "" {
		files = append([]string{".env." + env}, files...)
	}
	for _, name := range files {
		if _, err := os.Stat(name); err == nil {
			if err := godotenv.Load(name); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("Failed to load env file")
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config over an existing viper instance, applying defaults
// for unset keys.
func FromViper(v *viper.Viper) Config {
	setDefaults(v)
	return mainConfig{
		EnvVars: EnvVars{v: v},
		API:     API{v: v},
		Session: Session{v: v},
		Storage: Storage{v: v},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault(appNameKey, "Abhyasa")
	v.SetDefault(envKey, "DEV")
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(profileKey, "default")

	v.SetDefault(apiBaseURLKey, "http://localhost:5000/api")
	v.SetDefault(refreshPathKey, "/auth/refresh")
	v.SetDefault(httpTimeoutKey, 15*time.Second)
	v.SetDefault(traceHTTPKey, false)

	v.SetDefault(inactivityWindowKey, 24*time.Hour)
	v.SetDefault(activityCoalesceKey, time.Duration(0))

	v.SetDefault(storageBackendKey, BackendFile)
	v.SetDefault(storagePathKey, defaultStoragePath())
	v.SetDefault(redisAddrKey, "localhost:6379")
	v.SetDefault(redisPasswordKey, "")
	v.SetDefault(redisDBKey, 0)
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "abhyasa", "session.json")
}
