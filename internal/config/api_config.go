package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	apiBaseURLKey  = "API_BASE_URL"
	refreshPathKey = "REFRESH_PATH"
	httpTimeoutKey = "HTTP_TIMEOUT"
	traceHTTPKey   = "TRACE_HTTP"
)

type API struct {
	v *viper.Viper
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the API root without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.v.GetString(apiBaseURLKey), "/")
}

func (a API) GetRefreshPath() string {
	return a.v.GetString(refreshPathKey)
}

func (a API) GetHTTPTimeout() time.Duration {
	return a.v.GetDuration(httpTimeoutKey)
}

// GetTraceHTTP reports whether API calls are printed. Only honoured in DEV.
func (a API) GetTraceHTTP() bool {
	return a.v.GetBool(traceHTTPKey)
}
