package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/shared/contextutil"
	"go-attend/internal/shared/counter"
	taskerrors "go-attend/internal/task/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Update(ctx context.Context, id int64, req UpdateTaskRequest) (TaskResponse, error)
	Submit(ctx context.Context, id, userID int64, req SubmitTaskRequest) (TaskResponse, error)
	Approve(ctx context.Context, id int64, req DecideTaskRequest) (TaskResponse, error)
	Reject(ctx context.Context, id int64, req DecideTaskRequest) (TaskResponse, error)
	GetAll(ctx context.Context) ([]TaskResponse, error)
	GetByID(ctx context.Context, id int64) (TaskResponse, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (TaskResponse, error)
	GetByUser(ctx context.Context, userID int64) ([]TaskResponse, error)
	GetMine(ctx context.Context, userID int64) ([]TaskResponse, error)
	GetMineToday(ctx context.Context, userID int64) ([]TaskResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		now:     time.Now,
		logger:  l,
	}
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func parseDueDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, taskerrors.ErrInvalidDueDate
	}
	return truncateToDay(parsed), nil
}

func (s *service) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create task requested",
		zap.String("request_id", rid),
		zap.Int64("assignee_id", req.UserID),
		zap.String("title", req.Title),
	)

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return TaskResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create task begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	nextVal, err := s.counter.GetNextValue(ctx, "task_code")
	if err != nil {
		s.logger.Error("create task generate code failed", zap.Error(err))
		return TaskResponse{}, err
	}

	t := &Task{
		Code:        fmt.Sprintf("TSK-%06d", nextVal),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DueDate:     dueDate,
		Status:      StatusPending,
		UserID:      req.UserID,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, t); err != nil {
		s.logger.Error("create task persist failed", zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.TaskAssignedEvent{
			EventType:  "task_assigned",
			RequestID:  rid,
			TaskID:     t.ID,
			TaskCode:   t.Code,
			UserID:     t.UserID,
			Title:      t.Title,
			DueDate:    t.DueDate.Format("2006-01-02"),
			OccurredAt: s.now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal task assigned event failed", zap.String("request_id", rid), zap.Error(err))
			return TaskResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "task",
			AggregateID:   strconv.FormatInt(t.ID, 10),
			EventType:     event.EventType,
			Topic:         events.TaskAssignedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create task outbox persist failed",
				zap.Int64("task_id", t.ID),
				zap.Error(err),
			)
			return TaskResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create task commit failed", zap.String("request_id", rid), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("create task success",
		zap.String("request_id", rid),
		zap.Int64("task_id", t.ID),
		zap.String("task_code", t.Code),
		zap.Int64("assignee_id", t.UserID),
	)

	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateTaskRequest) (TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update task requested",
		zap.String("request_id", rid),
		zap.Int64("task_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return TaskResponse{}, err
		}
		t.DueDate = dueDate
	}
	if req.UserID != nil {
		t.UserID = *req.UserID
	}

	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("update task persist failed", zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("update task success", zap.Int64("task_id", id))
	return mapToResponse(*t), nil
}

// Submit hanya untuk assignee. Task milik orang lain dijawab not found.
// Submit berulang menimpa komentar dan waktu submit sebelumnya, status
// tidak pernah disentuh di sini.
func (s *service) Submit(ctx context.Context, id, userID int64, req SubmitTaskRequest) (TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit task requested",
		zap.String("request_id", rid),
		zap.Int64("task_id", id),
		zap.Int64("user_id", userID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}

	submittedAt := s.now().UTC()
	t.SubmitComment = strings.TrimSpace(req.SubmitComment)
	t.SubmittedAt = &submittedAt

	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("submit task persist failed", zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("submit task success",
		zap.String("request_id", rid),
		zap.Int64("task_id", id),
		zap.Int64("user_id", userID),
	)

	return mapToResponse(*t), nil
}

func (s *service) Approve(ctx context.Context, id int64, req DecideTaskRequest) (TaskResponse, error) {
	return s.decide(ctx, id, StatusApproved, req.AdminComment)
}

func (s *service) Reject(ctx context.Context, id int64, req DecideTaskRequest) (TaskResponse, error) {
	return s.decide(ctx, id, StatusRejected, req.AdminComment)
}

// decide menolak keputusan kedua: task yang sudah APPROVED atau REJECTED
// tidak bisa diputuskan ulang.
func (s *service) decide(ctx context.Context, id int64, status, adminComment string) (TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide task requested",
		zap.String("request_id", rid),
		zap.Int64("task_id", id),
		zap.String("decision", status),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}

	if t.Status != StatusPending {
		s.logger.Warn("decide task already decided",
			zap.Int64("task_id", id),
			zap.String("status", t.Status),
		)
		return TaskResponse{}, taskerrors.ErrTaskAlreadyDecided
	}

	t.Status = status
	t.AdminComment = strings.TrimSpace(adminComment)

	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("decide task persist failed", zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("decide task success",
		zap.String("request_id", rid),
		zap.Int64("task_id", id),
		zap.String("status", status),
	)

	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context) ([]TaskResponse, error) {
	s.logger.Debug("get all tasks requested")
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all tasks failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(tasks), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (TaskResponse, error) {
	s.logger.Debug("get task by id requested", zap.Int64("task_id", id))
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get task by id failed", zap.Error(err))
		return TaskResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) GetByIDAndUser(ctx context.Context, id, userID int64) (TaskResponse, error) {
	s.logger.Debug("get task by id and user requested",
		zap.Int64("task_id", id),
		zap.Int64("user_id", userID),
	)
	t, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) GetByUser(ctx context.Context, userID int64) ([]TaskResponse, error) {
	s.logger.Debug("get tasks by user requested", zap.Int64("user_id", userID))
	tasks, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("get tasks by user failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(tasks), nil
}

func (s *service) GetMine(ctx context.Context, userID int64) ([]TaskResponse, error) {
	return s.GetByUser(ctx, userID)
}

func (s *service) GetMineToday(ctx context.Context, userID int64) ([]TaskResponse, error) {
	today := truncateToDay(s.now())
	s.logger.Debug("get my tasks today requested",
		zap.Int64("user_id", userID),
		zap.Time("date", today),
	)

	tasks, err := s.repo.FindDueOnDate(ctx, userID, today)
	if err != nil {
		s.logger.Error("get my tasks today failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	if len(tasks) == 0 {
		return nil, taskerrors.ErrNoTasksToday
	}
	return mapToListResponse(tasks), nil
}

func mapToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID,
		UUID:          t.UUID.String(),
		Code:          t.Code,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate.Format("2006-01-02"),
		Status:        t.Status,
		AdminComment:  t.AdminComment,
		SubmitComment: t.SubmitComment,
		UserID:        t.UserID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if t.SubmittedAt != nil {
		resp.SubmittedAt = t.SubmittedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(tasks []Task) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = mapToResponse(t)
	}
	return res
}
