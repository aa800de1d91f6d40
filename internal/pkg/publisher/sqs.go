package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/telemetry"
	"github.com/sony/gobreaker"
)

const (
	EventTypeAttendanceRecorded = "ATTENDANCE_RECORDED"
	EventTypeAttendanceReviewed = "ATTENDANCE_REVIEWED"
)

// SQSClient is the part of the AWS SQS client the publisher needs.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Envelope is the message body written to the queue.
type Envelope struct {
	Type       string                   `json:"type"`
	OccurredAt string                   `json:"occurred_at"`
	Data       attendance.EventResponse `json:"data"`
}

// SQSPublisher sends attendance events to one queue behind a circuit breaker,
// so an unavailable queue fails fast instead of slowing down registrations.
type SQSPublisher struct {
	client   SQSClient
	queueURL string
	cb       *gobreaker.CircuitBreaker
	now      func() time.Time
}

func NewSQSPublisher(client SQSClient, queueURL string) *SQSPublisher {
	settings := gobreaker.Settings{
		Name:        "attendance-events",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		cb:       gobreaker.NewCircuitBreaker(settings),
		now:      time.Now,
	}
}

func (p *SQSPublisher) PublishAttendanceRecorded(ctx context.Context, event attendance.EventResponse) error {
	return p.publish(ctx, EventTypeAttendanceRecorded, event)
}

func (p *SQSPublisher) PublishAttendanceReviewed(ctx context.Context, event attendance.EventResponse) error {
	return p.publish(ctx, EventTypeAttendanceReviewed, event)
}

func (p *SQSPublisher) publish(ctx context.Context, eventType string, event attendance.EventResponse) error {
	body, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: p.now().UTC().Format(time.RFC3339),
		Data:       event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	attributes := telemetry.InjectTraceContext(ctx)
	attributes["EventType"] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(eventType),
	}
	attributes["CompanyID"] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(event.CompanyID),
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return p.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:          aws.String(p.queueURL),
			MessageBody:       aws.String(string(body)),
			MessageAttributes: attributes,
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("event queue unavailable: %w", err)
		}
		return fmt.Errorf("failed to send %s message: %w", eventType, err)
	}
	return nil
}

// Noop discards events. It is used when no queue is configured.
type Noop struct{}

func (Noop) PublishAttendanceRecorded(context.Context, attendance.EventResponse) error { return nil }

func (Noop) PublishAttendanceReviewed(context.Context, attendance.EventResponse) error { return nil }
