package source

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/jobnest/internal/logger"
)

// HTTPConfig is the transport configuration shared by every provider client.
type HTTPConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	Headers    map[string]string
}

const (
	defaultTimeout   = 25 * time.Second
	defaultRetryWait = 2 * time.Second
)

// NewHTTPClient builds a resty client with a bounded timeout and a fixed
// number of transport-level retries spaced by a fixed delay.
func NewHTTPClient(cfg HTTPConfig) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = defaultRetryWait
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	for k, v := range cfg.Headers {
		client.SetHeader(k, v)
	}
	// Equal min and max wait keeps the delay fixed instead of exponential.
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(wait)
	client.SetRetryMaxWaitTime(wait)
	client.SetLogger(logger.GetDefault())

	return client
}
