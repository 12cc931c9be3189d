package cache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"
)

// FromCacheHeader is set on responses served from the Store.
const FromCacheHeader = "X-From-Cache"

type noCacheKey struct{}

// NoCache returns a context whose requests skip stored responses.
// The fresh responses are still stored for later requests.
func NoCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

// skipLookup reports whether req must go to the network: its context was marked
// with NoCache or it carries Cache-Control: no-cache.
func skipLookup(req *http.Request) bool {
	if noCache, _ := req.Context().Value(noCacheKey{}).(bool); noCache {
		return true
	}
	return strings.Contains(strings.ToLower(req.Header.Get("Cache-Control")), "no-cache")
}

// Transport is an http.RoundTripper that serves repeated GET requests from a Store.
// Only 200 responses are stored, so failures are always retried against the network.
type Transport struct {
	store *Store
	base  http.RoundTripper
}

// NewTransport wraps base with the store. A nil base uses http.DefaultTransport.
func NewTransport(store *Store, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{store: store, base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.store == nil {
		return t.base.RoundTrip(req)
	}

	key := requestKey(req)
	if data, ok := t.store.Get(key); ok && !skipLookup(req) {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), req); err == nil {
			resp.Header.Set(FromCacheHeader, "1")
			return resp, nil
		}
		t.store.Delete(key)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	// DumpResponse buffers the body and leaves resp.Body readable.
	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer response: %w", err)
	}
	_ = t.store.Set(key, data)

	return resp, nil
}

// requestKey identifies a request by method, URL and credentials,
// so that tokens with different access never share entries.
func requestKey(req *http.Request) string {
	auth := sha256.Sum256([]byte(req.Header.Get("Authorization")))
	return req.Method + " " + req.URL.String() + " " + hex.EncodeToString(auth[:8])
}
