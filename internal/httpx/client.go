// Package httpx builds outbound HTTP clients with explicit proxy policy.
package httpx

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// NewClient builds an HTTP client with a bounded timeout.
//
// Proxy behavior:
//   - "" (default): no proxy, even if HTTP_PROXY / HTTPS_PROXY is set
//   - "env": Go's ProxyFromEnvironment (HTTP_PROXY/HTTPS_PROXY/NO_PROXY)
//   - "socks5://host:port": SOCKS5 proxy for all outbound dials
//   - URL / host:port: fixed http/https proxy
func NewClient(timeout time.Duration, proxyRaw string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	raw := strings.TrimSpace(proxyRaw)
	switch strings.ToLower(raw) {
	case "", "0", "false", "off", "no", "none", "direct":
		// no proxy
	case "env":
		transport.Proxy = http.ProxyFromEnvironment
	default:
		if strings.HasPrefix(strings.ToLower(raw), "socks5://") {
			if err := useSOCKS5(transport, raw); err != nil {
				return nil, err
			}
		} else {
			proxyURL, err := parseProxyURL(raw)
			if err != nil {
				return nil, err
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

func useSOCKS5(transport *http.Transport, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid socks5 proxy %q: %w", raw, err)
	}
	var auth *netproxy.Auth
	if u.User != nil {
		pw, _ := u.User.Password()
		auth = &netproxy.Auth{User: u.User.Username(), Password: pw}
	}
	dialer, err := netproxy.SOCKS5("tcp", u.Host, auth, &net.Dialer{Timeout: 10 * time.Second})
	if err != nil {
		return fmt.Errorf("socks5 proxy %q: %w", raw, err)
	}
	transport.Dial = dialer.Dial //nolint:staticcheck // ContextDialer assertion below covers the context path
	if cd, ok := dialer.(netproxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	}
	return nil
}

func parseProxyURL(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported proxy scheme %q (only http/https/socks5)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy url %q missing host", raw)
	}
	return u, nil
}
