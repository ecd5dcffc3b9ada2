package repository

import (
	"context"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
)

// TimelineEvent is the Kafka payload for one recomputed timeline.
type TimelineEvent struct {
	RunID       string                `json:"runId"`
	Symbol      string                `json:"symbol"`
	Interval    string                `json:"interval"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Sentiment   *int                  `json:"sentiment,omitempty"`
	Markers     []models.SignalMarker `json:"markers"`
	Errors      map[string]string     `json:"errors,omitempty"`
}

// KafkaTimelinePublisher implements TimelinePublisher for Kafka.
// Messages are keyed by symbol:interval so a series stays on one partition.
type KafkaTimelinePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTimelinePublisher creates Kafka publisher.
func NewKafkaTimelinePublisher(producer *pkgkafka.Producer, topic string) *KafkaTimelinePublisher {
	return &KafkaTimelinePublisher{producer: producer, topic: topic}
}

func (p *KafkaTimelinePublisher) PublishTimeline(ctx context.Context, tl *models.Timeline) error {
	if tl == nil {
		return nil
	}
	markers := tl.Markers
	if markers == nil {
		markers = []models.SignalMarker{}
	}
	ev := TimelineEvent{
		RunID:       tl.RunID,
		Symbol:      tl.Symbol,
		Interval:    tl.Interval,
		GeneratedAt: tl.GeneratedAt.UTC(),
		Sentiment:   tl.Sentiment,
		Markers:     markers,
		Errors:      tl.Errors,
	}
	return p.producer.Publish(ctx, p.topic, []byte(tl.Symbol+":"+tl.Interval), ev, map[string]string{
		"content-type": "application/json",
		"run-id":       tl.RunID,
	})
}

func (p *KafkaTimelinePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ domrepo.TimelinePublisher = (*KafkaTimelinePublisher)(nil)
