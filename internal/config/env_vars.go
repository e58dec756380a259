package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	appNameKey  = "APP_NAME"
	envKey      = "ENV"
	logLevelKey = "LOG_LEVEL"
	profileKey  = "PROFILE"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

// GetEnv returns the deployment environment in upper case (DEV, TEST, PROD).
func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.v.GetString(envKey))
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(logLevelKey)
}

// GetProfile names the local session profile. Each profile keeps its own token,
// activity timestamp and paid flag.
func (e EnvVars) GetProfile() string {
	return e.v.GetString(profileKey)
}
