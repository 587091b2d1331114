package natsadapter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/metrics"
)

// Subjects. The trailing token is the user ID.
const (
	SubjectFollows   = "bloomix.follows"
	SubjectPlaylists = "bloomix.playlists"
	// SubjectAll matches every event, for relays.
	SubjectAll = "bloomix.>"
)

// Streams ensured by NewPublisher.
var Streams = []nats.StreamConfig{
	{
		Name:      "BLOOMIX_FOLLOWS",
		Subjects:  []string{SubjectFollows + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "BLOOMIX_PLAYLISTS",
		Subjects:  []string{SubjectPlaylists + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    6 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// FollowSubject is the subject of follow events of userID.
func FollowSubject(userID int64) string {
	return SubjectFollows + "." + strconv.FormatInt(userID, 10)
}

// PlaylistSubject is the subject of playlist events of userID.
func PlaylistSubject(userID int64) string {
	return SubjectPlaylists + "." + strconv.FormatInt(userID, 10)
}

func (p *Publisher) PublishFollowChanged(ctx context.Context, event *domain.FollowEvent) error {
	return p.publish(ctx, SubjectFollows, FollowSubject(event.UserID), event)
}

func (p *Publisher) PublishPlaylistComposed(ctx context.Context, event *domain.PlaylistEvent) error {
	return p.publish(ctx, SubjectPlaylists, PlaylistSubject(event.UserID), event)
}

func (p *Publisher) publish(ctx context.Context, label, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		metrics.EventsPublished.WithLabelValues(label, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	metrics.EventsPublished.WithLabelValues(label, "ok").Inc()
	return nil
}

// IsConnected reports the connection state.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("bloomix"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
