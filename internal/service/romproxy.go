package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrMissingURL       = errors.New("URL parameter required")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrHostNotAllowed   = errors.New("host not allowed")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// UpstreamStatusError reports a final upstream response other than 200.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

type RomProxyConfig struct {
	AllowedHosts []string
	UserAgent    string
	MaxRedirects int
	Timeout      time.Duration // 0 = bounded only by the caller's context
}

// RomProxy fetches ROM files from allow-listed hosts for the emulator widget.
type RomProxy struct {
	client       *http.Client
	allowedHosts []string
	userAgent    string
	maxRedirects int
}

func NewRomProxy(cfg RomProxyConfig) *RomProxy {
	// Compression stays off so bytes and Content-Length reach the browser untouched
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	p := &RomProxy{
		allowedHosts: normalizeHosts(cfg.AllowedHosts),
		userAgent:    cfg.UserAgent,
		maxRedirects: cfg.MaxRedirects,
	}
	p.client = &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > p.maxRedirects {
				return fmt.Errorf("%w (%d)", ErrTooManyRedirects, len(via))
			}
			if !p.hostAllowed(req.URL.Hostname()) {
				return fmt.Errorf("redirect to %s: %w", req.URL.Hostname(), ErrHostNotAllowed)
			}
			req.Header.Set("User-Agent", p.userAgent)
			req.Header.Set("Accept", "*/*")
			return nil
		},
	}
	return p
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// hostAllowed matches an allow-list entry exactly or as a parent domain.
func (p *RomProxy) hostAllowed(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	for _, allowed := range p.allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (p *RomProxy) parse(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if !p.hostAllowed(u.Hostname()) {
		return nil, ErrHostNotAllowed
	}
	return u, nil
}

// Allowed reports whether rawURL is a URL the proxy would fetch.
func (p *RomProxy) Allowed(rawURL string) bool {
	_, err := p.parse(rawURL)
	return err == nil
}

// Fetch validates rawURL and opens it, following redirects. On success the
// response status is 200 and the caller must close the body. No request is
// issued for URLs that fail validation.
func (p *RomProxy) Fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	u, err := p.parse(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrTooManyRedirects) || errors.Is(err, ErrHostNotAllowed) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch rom: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}
