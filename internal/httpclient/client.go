// Package httpclient builds the HTTP client shared by all object-store
// operations. Connection pooling matters here: a sync run issues thousands
// of GetObject calls against the same endpoint.
package httpclient

import (
	"crypto/tls"
	nethttp "net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http2"
)

const (
	maxIdleConns        = 256
	maxIdleConnsPerHost = 64
	maxConnsPerHost     = 64
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 30 * time.Second

	// Transport-level retries only; the sync orchestrator never retries a
	// failed object transfer.
	retryMax     = 2
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// New creates an HTTP client tuned for repeated large object transfers:
// pooled connections, HTTP/2, no response compression, and bounded
// transport-level retry for transient network failures.
func New() *nethttp.Client {
	tr := nethttp.DefaultTransport.(*nethttp.Transport).Clone()

	tr.MaxIdleConns = maxIdleConns
	tr.MaxIdleConnsPerHost = maxIdleConnsPerHost
	tr.MaxConnsPerHost = maxConnsPerHost
	tr.IdleConnTimeout = idleConnTimeout
	tr.TLSHandshakeTimeout = tlsHandshakeTimeout

	// No benefit for media files, which are already compressed.
	tr.DisableCompression = true
	tr.ForceAttemptHTTP2 = true
	_ = http2.ConfigureTransport(tr)

	// FILMSYNC_DISABLE_HTTP2=true forces HTTP/1.1 for debugging proxies
	// that mishandle multiplexed streams.
	if os.Getenv("FILMSYNC_DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = map[string]func(string, *tls.Conn) nethttp.RoundTripper{}
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.Logger = nil
	rc.HTTPClient = &nethttp.Client{Transport: tr}

	client := rc.StandardClient()
	// Per-operation deadlines come from contexts, not a client-wide timeout.
	client.Timeout = 0
	return client
}
