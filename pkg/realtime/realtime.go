// Package realtime pushes production updates to shop-floor terminals. The
// worker publishes envelopes on a Redis channel and every API replica fans
// them out to its connected Server-Sent Events clients.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/shopfloor/pkg/logger"
)

const heartbeatInterval = 30 * time.Second

// Envelope is one message on the realtime channel.
type Envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sent_at"`
}

// Publisher writes envelopes to a Redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Publish wraps v in an Envelope of the given type.
func (p *Publisher) Publish(ctx context.Context, typ string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	body, err := json.Marshal(Envelope{Type: typ, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// StreamHandler serves GET /api/realtime as an SSE stream of the channel.
func StreamHandler(client *redis.Client, channel string, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			log.WarnContext(ctx, "realtime: clear write deadline", "error", err)
		}

		sub := client.Subscribe(ctx, channel)
		defer sub.Close() //nolint:errcheck
		if _, err := sub.Receive(ctx); err != nil {
			log.WarnContext(ctx, "realtime subscribe failed", "channel", channel, "error", err)
			http.Error(w, "realtime unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "event: connected\ndata: {}\n\n")
		if err := rc.Flush(); err != nil {
			log.WarnContext(ctx, "realtime: streaming unsupported", "error", err)
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()
		msgs := sub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := WriteEvent(w, []byte(msg.Payload)); err != nil {
					log.WarnContext(ctx, "realtime: dropping malformed envelope", "error", err)
					continue
				}
				_ = rc.Flush()
			case <-heartbeat.C:
				_, _ = io.WriteString(w, ": keepalive\n\n")
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}

// WriteEvent renders one envelope as an SSE frame named after its type.
func WriteEvent(w io.Writer, payload []byte) error {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return errors.New("envelope without type")
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Type, env.Data)
	return err
}
