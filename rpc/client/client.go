// Package client provides http helpers for talking to a node's REST and
// JSON-RPC surfaces, and for downloading published artifacts.
package client

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 60 // seconds
	defaultRequestID = 1
)

var httpClient = resty.New().SetTimeout(defaultTimeout * time.Second)

// SetTimeout adjusts the shared request timeout.
func SetTimeout(seconds int) {
	if seconds > 0 {
		httpClient.SetTimeout(time.Duration(seconds) * time.Second)
	}
}
