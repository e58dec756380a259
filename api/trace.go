package api

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	green      = "\033[32m"
	yellow     = "\033[33m"
	blue       = "\033[34m"
	magenta    = "\033[35m"
	cyan       = "\033[36m"
	gray       = "\033[90m"
	resetColor = "\033[0m"
)

var methodColors = map[string]string{
	http.MethodGet:    green,
	http.MethodPost:   blue,
	http.MethodPut:    cyan,
	http.MethodDelete: yellow,
	http.MethodPatch:  magenta,
}

// traceTransport prints one line per call: method, path, status and time.
type traceTransport struct {
	base http.RoundTripper
	out  io.Writer
}

func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)

	status := "ERR"
	if resp != nil {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	fmt.Fprintf(t.out, "[%-19s] %s %s %s\n", displayMethod(req.Method), req.URL.Path, status, elapsed)
	return resp, err
}

func displayMethod(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + padded + resetColor
	}
	return gray + padded + resetColor
}
