package collaborator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	c "lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/metrics"
	u "lautenbacher.net/lovebox/util"
)

// Upper bound for a message body; anything longer is cut.
const maxMessageSize = 64 * 1024

// FetchCollaborator polls the remote message location and publishes
// every message that differs from the previous one.
type FetchCollaborator struct {
	*AbstractCollaborator
	client   *http.Client
	url      string
	interval time.Duration
	timeout  time.Duration
	message  *u.AtomicEvent[string]
	// only accessed from the worker go routine
	last string
}

func NewFetchCollaborator(uid string, settings c.Settings, fetchConf c.FetchConfig, message *u.AtomicEvent[string]) *FetchCollaborator {
	inst := &FetchCollaborator{
		client:   &http.Client{},
		url:      settings.MessageURL(fetchConf.Host),
		interval: settings.FetchInterval(),
		timeout:  fetchConf.Timeout,
		message:  message,
	}
	inst.AbstractCollaborator = NewAbstractCollaborator(uid, inst.runner)
	return inst
}

// Start does nothing when no remote message location is configured.
func (s *FetchCollaborator) Start() {
	if s.url == "" {
		slog.Info("No remote message location configured, fetching disabled", "uid", s.uid)
		return
	}
	s.AbstractCollaborator.Start()
}

func (s *FetchCollaborator) runner(stop <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("Fetching messages", "uid", s.uid, "url", s.url, "interval", s.interval)
	s.fetchOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			slog.Info("Ending fetch go-routine", "uid", s.uid)
			return
		case <-ticker.C:
			s.fetchOnce(ctx)
		}
	}
}

func (s *FetchCollaborator) fetchOnce(ctx context.Context) {
	msg, err := s.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Fetching message failed", "uid", s.uid, "error", err)
		metrics.FetchTotal.WithLabelValues(metrics.ResultError).Inc()
		return
	}
	if msg == s.last {
		slog.Debug("Message unchanged", "uid", s.uid)
		metrics.FetchTotal.WithLabelValues(metrics.ResultUnchanged).Inc()
		return
	}
	s.last = msg
	slog.Info("New message received", "uid", s.uid, "length", len(msg))
	metrics.FetchTotal.WithLabelValues(metrics.ResultChanged).Inc()
	s.message.Send(msg)
}

// Fetch retrieves the current message once.
func (s *FetchCollaborator) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Lovebox")
	// raw gist content is cached by the CDN
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxMessageSize))
		return "", fmt.Errorf("fetching %s: unexpected status %s", s.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageSize+1))
	if err != nil {
		return "", fmt.Errorf("reading message: %w", err)
	}
	if len(body) > maxMessageSize {
		slog.Warn("Message too long, truncated", "uid", s.uid, "limit", maxMessageSize)
		body = body[:maxMessageSize]
	}
	// a cut may split a rune
	return strings.TrimSpace(strings.ToValidUTF8(string(body), "")), nil
}
