package consumer

import (
	"context"
	"encoding/json"
	"strconv"

	"go-attend/internal/bootstrap"
	"go-attend/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "leave.decided",
			Message: "Leave " + strconv.FormatInt(event.LeaveID, 10) + " for " + event.Date + " is " + event.Status,
			Meta: map[string]any{
				"leave_id":      event.LeaveID,
				"user_id":       event.UserID,
				"status":        event.Status,
				"admin_comment": event.AdminComment,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision notified",
			zap.Int64("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}
