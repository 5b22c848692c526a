package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/lingua-go-api/internal/dto"
)

// ProgressEvent is broadcast after every progress recomputation.
type ProgressEvent struct {
	Source   string               `json:"source"`
	Trigger  string               `json:"trigger"`
	LessonID uint                 `json:"lesson_id"`
	Progress dto.ProgressResponse `json:"progress"`
	Streak   *dto.StreakResponse  `json:"streak,omitempty"`
	SentAt   time.Time            `json:"sent_at"`
}

// ProgressPublisher fans progress events out to the configured brokers.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event ProgressEvent) error
}

type progressPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	nodeID       string
}

// NewProgressPublisher builds a publisher. Either broker may be nil.
func NewProgressPublisher(redisClient *redis.Client, channelBase string, natsConn *nats.Conn) ProgressPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":progress"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".progress"
	}

	return &progressPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		nodeID:       uuid.NewString(),
	}
}

func (p *progressPublisher) PublishProgress(ctx context.Context, event ProgressEvent) error {
	event.Source = p.nodeID
	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}
