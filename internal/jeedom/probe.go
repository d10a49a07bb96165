package jeedom

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultProbeTimeout = 2 * time.Second

// Prober picks the first reachable controller URL by opening a TCP connection
// to its host and port. No HTTP request is made.
type Prober struct {
	dialer *net.Dialer
	logger *zap.Logger
}

// NewProber creates a Prober. A zero timeout uses a two second default.
func NewProber(timeout time.Duration, logger *zap.Logger) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		dialer: &net.Dialer{Timeout: timeout},
		logger: logger,
	}
}

// Probe returns the first URL whose host accepts a TCP connection, trying
// urls in order. Empty entries are skipped.
func (p *Prober) Probe(ctx context.Context, urls ...string) (string, error) {
	var errs []error
	for _, raw := range urls {
		if raw == "" {
			continue
		}
		addr, err := dialAddress(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		conn, err := p.dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			p.logger.Debug("jeedom url unreachable", zap.String("addr", addr), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		_ = conn.Close()

		p.logger.Debug("jeedom url reachable", zap.String("addr", addr))
		return raw, nil
	}
	if len(errs) == 0 {
		return "", ErrNoReachableURL
	}
	return "", fmt.Errorf("%w: %w", ErrNoReachableURL, errors.Join(errs...))
}

// dialAddress turns a controller URL into host:port, defaulting the port from
// the scheme.
func dialAddress(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrURLNotParsable, raw)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: %s", ErrURLHostUnknown, raw)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("%w: unsupported scheme %q", ErrURLNotParsable, u.Scheme)
		}
	}
	return net.JoinHostPort(host, port), nil
}
