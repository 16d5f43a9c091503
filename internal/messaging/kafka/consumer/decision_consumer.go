package consumer

import (
	"context"
	"encoding/json"

	"go-worklog/internal/events"
	"go-worklog/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeDecisions turns workflow decision events into owner emails.
// Email delivery is best-effort: a send failure is logged and the
// message is still committed, never replayed against the decision.
func ConsumeDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.decision")
	log.Info("decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("decision consumer stopped")
				return
			}
			log.Error("fetch decision message failed", zap.Error(err))
			continue
		}

		var event events.DecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.OwnerEmail == "" {
			log.Warn("decision event without owner email, skipping",
				zap.String("entity_kind", event.EntityKind),
				zap.String("entity_id", event.EntityID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		subject, body := notification.DecisionEmail(event)
		if err := mailer.Send(event.OwnerEmail, subject, body); err != nil {
			log.Error("send decision email failed",
				zap.String("entity_kind", event.EntityKind),
				zap.String("entity_id", event.EntityID),
				zap.String("owner_id", event.OwnerID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit decision message failed", zap.Error(err))
			continue
		}

		log.Info("decision notification processed",
			zap.String("entity_kind", event.EntityKind),
			zap.String("entity_id", event.EntityID),
			zap.String("status", event.Status),
		)
	}
}
