package events

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
)

// Path is where the site server mounts the change stream.
const Path = "/api/events"

// DefaultBackoff is the pause before reconnecting a dropped stream.
const DefaultBackoff = 2 * time.Second

// Subscriber follows a site server's change stream.
type Subscriber struct {
	url     string
	client  *http.Client
	backoff time.Duration
	clock   clockwork.Clock
}

// NewSubscriber creates a subscriber for the server at baseURL. A nil client
// uses one without a timeout, since the stream is long-lived.
func NewSubscriber(baseURL string, client *http.Client) *Subscriber {
	if client == nil {
		client = &http.Client{}
	}
	return &Subscriber{
		url:     strings.TrimRight(baseURL, "/") + Path,
		client:  client,
		backoff: DefaultBackoff,
		clock:   clockwork.NewRealClock(),
	}
}

// WithClock replaces the clock that times reconnects.
func (s *Subscriber) WithClock(c clockwork.Clock) *Subscriber {
	s.clock = c
	return s
}

// Run delivers changes to fn until ctx is cancelled, reconnecting after a
// short pause when the stream drops. Every reconnect first announces each
// category with an empty Hash, since broadcasts made while disconnected are lost.
func (s *Subscriber) Run(ctx context.Context, fn func(gallery.Change)) error {
	for reconnect := false; ; reconnect = true {
		err := s.stream(ctx, fn, reconnect)
		if ctx.Err() != nil {
			return nil
		}
		slog.Debug("change stream disconnected; retrying", logfields.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.backoff):
		}
	}
}

func (s *Subscriber) stream(ctx context.Context, fn func(gallery.Change), resync bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := s.client.Do(req)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "change stream connect failed").
			Retryable().
			WithContext("url", s.url).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return derrors.NetworkError("change stream rejected").
			WithContext("url", s.url).
			WithContext("status", resp.StatusCode).
			Build()
	}
	if resync {
		slog.Info("Change stream reconnected; re-listing", slog.String("url", s.url))
		for _, cat := range gallery.Categories() {
			fn(gallery.Change{Category: cat})
		}
	}
	return readEvents(resp.Body, fn)
}

// readEvents parses "change" events from an SSE body until it ends.
func readEvents(body io.Reader, fn func(gallery.Change)) error {
	scanner := bufio.NewScanner(body)
	eventType := "message"
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if eventType == "change" && data.Len() > 0 {
				var change gallery.Change
				if err := json.Unmarshal([]byte(data.String()), &change); err != nil {
					slog.Debug("malformed change event", logfields.Error(err))
				} else {
					fn(change)
				}
			}
			eventType = "message"
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// Comment or heartbeat.
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(line, "data: "))
		}
	}
	return scanner.Err()
}
