// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	xproxy "golang.org/x/net/proxy"
)

// NewHTTPClient builds the outbound HTTP client shared by the search
// gateways and the completion client. proxyURL may be empty, an http(s):// URL, or a socks5:// URL.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("util: invalid proxy url: %w", err)
		}
		switch parsed.Scheme {
		case "socks5", "socks5h":
			dialer, err := xproxy.FromURL(parsed, xproxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("util: socks proxy: %w", err)
			}
			if ctxDialer, ok := dialer.(xproxy.ContextDialer); ok {
				transport.DialContext = ctxDialer.DialContext
			}
		default:
			transport.Proxy = http.ProxyURL(parsed)
		}
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// DecodeBody wraps the response body with the decoder matching its
// Content-Encoding. Engines answer brotli or gzip when offered; stdlib only
// transparently handles gzip it negotiated itself.
func DecodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("util: gzip reader: %w", err)
		}
		return zr, nil
	default:
		return resp.Body, nil
	}
}
