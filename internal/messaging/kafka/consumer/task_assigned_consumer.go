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

func ConsumeTaskAssigned(
	ctx context.Context,
	reader *kafkago.Reader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.task_assigned")
	log.Info("task assigned consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("task assigned consumer stopped")
				return
			}
			log.Error("fetch task assigned message failed", zap.Error(err))
			continue
		}

		var event events.TaskAssignedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Pesan rusak tetap di-commit agar tidak macet di offset yang sama
			log.Error("decode task_assigned event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "task.assigned",
			Message: "Task " + event.TaskCode + " assigned to user " + strconv.FormatInt(event.UserID, 10),
			Meta: map[string]any{
				"task_id":  event.TaskID,
				"user_id":  event.UserID,
				"title":    event.Title,
				"due_date": event.DueDate,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit task assigned message failed", zap.Error(err))
			continue
		}

		log.Info("task assignment notified",
			zap.String("task_code", event.TaskCode),
			zap.Int64("user_id", event.UserID),
		)
	}
}
