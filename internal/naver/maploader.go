package naver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"phonedeal-be/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultMapScriptURL = "https://oapi.map.naver.com/openapi/v3/maps.js"
	DefaultLoadTimeout  = 12 * time.Second
)

var (
	ErrMapAuthFailed  = errors.New("naver maps: authentication failed")
	ErrMapLoadTimeout = errors.New("naver maps: load timed out")
	ErrMapUnavailable = errors.New("naver maps: unavailable")
)

// MapHandle is what a client needs to bootstrap the map widget.
type MapHandle struct {
	ClientID  string `json:"clientId"`
	ScriptURL string `json:"scriptUrl"`
}

// MapLoader checks once per process that the map script can be loaded with
// the configured client id. Only success is remembered.
type MapLoader struct {
	clientID   string
	scriptURL  string
	timeout    time.Duration
	httpClient *http.Client

	mu     sync.Mutex
	handle *MapHandle
}

type LoaderOption func(*MapLoader)

func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *MapLoader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithScriptURL(u string) LoaderOption {
	return func(l *MapLoader) {
		if u != "" {
			l.scriptURL = u
		}
	}
}

func NewMapLoader(clientID string, opts ...LoaderOption) *MapLoader {
	l := &MapLoader{
		clientID:   clientID,
		scriptURL:  DefaultMapScriptURL,
		timeout:    DefaultLoadTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MapLoader) Load(ctx context.Context) (*MapHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle != nil {
		return l.handle, nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("client", "NaverMaps"),
		zap.String("method", "Load"),
	)

	if l.clientID == "" {
		log.Warn("map client id is not configured")
		return nil, ErrMapAuthFailed
	}

	src := l.scriptURL + "?ncpKeyId=" + url.QueryEscape(l.clientID)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapUnavailable, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("map script load timed out", zap.Duration("timeout", l.timeout))
			return nil, ErrMapLoadTimeout
		}
		log.Error("map script load failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMapUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrMapLoadTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrMapUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Error("map client id rejected", zap.Int("status", resp.StatusCode))
		return nil, ErrMapAuthFailed
	case resp.StatusCode != http.StatusOK:
		log.Error("map script returned non-success status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrMapUnavailable, resp.StatusCode)
	case len(body) == 0:
		// loads but exposes no API
		return nil, ErrMapAuthFailed
	}

	l.handle = &MapHandle{ClientID: l.clientID, ScriptURL: src}
	log.Info("map script reachable")
	return l.handle, nil
}
