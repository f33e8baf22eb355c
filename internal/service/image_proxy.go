package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rewear/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultImageProxyTimeout  = 8 * time.Second
	DefaultImageProxyMaxBytes = 5 * 1024 * 1024
	ImageProxyUserAgent       = "ReWear/1.0 (+image-proxy)"
	defaultImageContentType   = "application/octet-stream"
)

var (
	ErrMissingURL      = errors.New("missing url")
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidProtocol = errors.New("invalid protocol")
	ErrUpstream        = errors.New("failed to fetch")
	ErrTooLarge        = errors.New("image too large")
)

// ProxiedImage is a fully buffered upstream image.
type ProxiedImage struct {
	ContentType string
	Body        []byte
}

type ImageProxyConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// ImageProxy relays remote images so the browser only talks to this origin.
type ImageProxy struct {
	client   *http.Client
	maxBytes int64
}

func NewImageProxy(cfg ImageProxyConfig) *ImageProxy {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultImageProxyTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultImageProxyMaxBytes
	}
	return &ImageProxy{
		client:   &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
	}
}

// ValidateTarget parses raw and accepts only absolute http(s) URLs.
func ValidateTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, ErrInvalidProtocol
	}
	if u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Fetch downloads raw and returns it unmodified. Bodies larger than the
// configured cap are discarded and reported as ErrTooLarge.
func (p *ImageProxy) Fetch(ctx context.Context, raw string) (img *ProxiedImage, err error) {
	target, err := ValidateTarget(raw)
	if err != nil {
		observability.ImageProxyResults.WithLabelValues(observability.ProxyResultInvalid).Inc()
		return nil, err
	}

	ctx, span := observability.StartClientSpan(ctx, "image_proxy.fetch",
		attribute.String("http.url", target.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	img, err = p.fetch(ctx, target)
	switch {
	case err == nil:
		observability.ImageProxyResults.WithLabelValues(observability.ProxyResultOK).Inc()
		observability.ImageProxyBytes.Observe(float64(len(img.Body)))
	case errors.Is(err, ErrTooLarge):
		observability.ImageProxyResults.WithLabelValues(observability.ProxyResultTooLarge).Inc()
	default:
		observability.ImageProxyResults.WithLabelValues(observability.ProxyResultUpstream).Inc()
	}
	return img, err
}

func (p *ImageProxy) fetch(ctx context.Context, target *url.URL) (*ProxiedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", ImageProxyUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstream, resp.StatusCode)
	}
	if resp.ContentLength > p.maxBytes {
		return nil, ErrTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if int64(len(body)) > p.maxBytes {
		return nil, ErrTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageContentType
	}
	return &ProxiedImage{ContentType: contentType, Body: body}, nil
}
