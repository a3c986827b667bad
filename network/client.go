// Package network provides the HTTP client used for manifest and segment fetches.
package network

import (
	"net/http"
	"time"

	"github.com/mafilu-cli/mafilu/constant"
)

// Client is shared by every stream session. It has no overall timeout because
// segment bodies are streamed into the engine; requests are bounded by context.
var Client = &http.Client{
	Transport: userAgent{next: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 32
	t.MaxIdleConnsPerHost = 8
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// userAgent sets the User-Agent header unless the caller already did.
type userAgent struct {
	next http.RoundTripper
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return u.next.RoundTrip(req)
}
