package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-attend/internal/attendance"
	"go-attend/internal/events"
	leaveerrors "go-attend/internal/leave/errors"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, userID int64, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, id int64, req DecideLeaveRequest) (DecisionResult, error)
	Reject(ctx context.Context, id int64, req DecideLeaveRequest) (DecisionResult, error)
	GetMine(ctx context.Context, userID int64) ([]LeaveResponse, error)
	GetByUser(ctx context.Context, userID int64) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id int64) (LeaveResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]LeaveResponse, int64, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	attRepo attendance.Repository
	outbox  kafka.OutboxRepository
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, attRepo attendance.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, attRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	attRepo attendance.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		attRepo: attRepo,
		outbox:  outboxRepo,
		now:     time.Now,
		logger:  l,
	}
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// validateLeaveDate menolak tanggal lampau dan akhir pekan dengan pesan
// yang berbeda agar klien tahu persis apa yang salah.
func (s *service) validateLeaveDate(date time.Time) error {
	today := truncateToDay(s.now())
	if date.Before(today) {
		return leaveerrors.ErrLeaveDateInPast
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return leaveerrors.ErrLeaveDateWeekend
	}
	return nil
}

func (s *service) Request(ctx context.Context, userID int64, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave request requested",
		zap.String("request_id", rid),
		zap.Int64("user_id", userID),
		zap.String("date", req.Date),
	)

	parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	date := truncateToDay(parsed)

	if err := s.validateLeaveDate(date); err != nil {
		s.logger.Warn("leave request date invalid",
			zap.String("request_id", rid),
			zap.Time("date", date),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	lv := &LeaveRequest{
		UserID: userID,
		Date:   date,
		Reason: strings.TrimSpace(req.Reason),
		Status: StatusPending,
	}

	if err := s.repo.Create(ctx, lv); err != nil {
		s.logger.Error("leave request persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("leave request created",
		zap.String("request_id", rid),
		zap.Int64("leave_id", lv.ID),
		zap.Int64("user_id", userID),
	)

	return mapToResponse(*lv), nil
}

// Approve menjalankan seluruh keputusan dalam satu transaksi: update status
// dan insert attendance LEAVE harus sama-sama masuk atau sama-sama batal.
func (s *service) Approve(ctx context.Context, id int64, req DecideLeaveRequest) (DecisionResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("approve leave requested",
		zap.String("request_id", rid),
		zap.Int64("leave_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lv, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DecisionResult{}, mapRepositoryError(err)
	}

	if lv.Status != StatusPending {
		s.logger.Warn("approve leave not pending",
			zap.Int64("leave_id", id),
			zap.String("status", lv.Status),
		)
		return DecisionResult{}, leaveerrors.ErrLeaveNotPending
	}

	// Tanggal divalidasi ulang saat keputusan, bukan hanya saat pengajuan.
	// Pengajuan yang sudah kedaluwarsa tidak boleh lolos approve.
	if err := s.validateLeaveDate(lv.Date); err != nil {
		return DecisionResult{}, err
	}

	attTx := s.attRepo.WithTx(tx)
	if _, err := attTx.FindByUserAndDate(ctx, lv.UserID, lv.Date); err == nil {
		return DecisionResult{}, leaveerrors.ErrAttendanceExistsOnDate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("approve leave attendance lookup failed", zap.Error(err))
		return DecisionResult{}, err
	}

	lv.Status = StatusApproved
	lv.AdminComment = strings.TrimSpace(req.AdminComment)
	if lv.AdminComment == "" {
		lv.AdminComment = DefaultApproveComment
	}

	if err := qtx.Update(ctx, lv); err != nil {
		s.logger.Error("approve leave persist failed", zap.Error(err))
		return DecisionResult{}, mapRepositoryError(err)
	}

	att := &attendance.Attendance{
		UserID: lv.UserID,
		Date:   lv.Date,
		Status: attendance.StatusLeave,
	}
	if err := attTx.Create(ctx, att); err != nil {
		s.logger.Error("approve leave attendance insert failed", zap.Error(err))
		return DecisionResult{}, err
	}

	if err := s.enqueueDecidedEvent(ctx, tx, lv, rid); err != nil {
		return DecisionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResult{}, err
	}

	s.logger.Info("approve leave success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", lv.ID),
		zap.Int64("user_id", lv.UserID),
	)

	return DecisionResult{
		Leave:   mapToResponse(*lv),
		Message: "Leave approved successfully.",
	}, nil
}

// Reject bersifat idempoten: leave yang sudah diputuskan dijawab sukses
// tanpa menyentuh status maupun komentar yang tersimpan.
func (s *service) Reject(ctx context.Context, id int64, req DecideLeaveRequest) (DecisionResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("reject leave requested",
		zap.String("request_id", rid),
		zap.Int64("leave_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lv, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DecisionResult{}, mapRepositoryError(err)
	}

	if lv.Status != StatusPending {
		return DecisionResult{
			Leave:   mapToResponse(*lv),
			Message: "Leave is already approved or rejected.",
		}, nil
	}

	lv.Status = StatusRejected
	lv.AdminComment = strings.TrimSpace(req.AdminComment)
	if lv.AdminComment == "" {
		lv.AdminComment = DefaultRejectComment
	}

	if err := qtx.Update(ctx, lv); err != nil {
		s.logger.Error("reject leave persist failed", zap.Error(err))
		return DecisionResult{}, mapRepositoryError(err)
	}

	if err := s.enqueueDecidedEvent(ctx, tx, lv, rid); err != nil {
		return DecisionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResult{}, err
	}

	s.logger.Info("reject leave success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", lv.ID),
	)

	return DecisionResult{
		Leave:   mapToResponse(*lv),
		Message: "Leave rejected successfully.",
	}, nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, lv *LeaveRequest, rid string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:    "leave_decided",
		RequestID:    rid,
		LeaveID:      lv.ID,
		UserID:       lv.UserID,
		Date:         lv.Date.Format("2006-01-02"),
		Status:       lv.Status,
		AdminComment: lv.AdminComment,
		OccurredAt:   s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave decided event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave",
		AggregateID:   strconv.FormatInt(lv.ID, 10),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave decided outbox persist failed",
			zap.Int64("leave_id", lv.ID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) GetMine(ctx context.Context, userID int64) ([]LeaveResponse, error) {
	return s.GetByUser(ctx, userID)
}

func (s *service) GetByUser(ctx context.Context, userID int64) ([]LeaveResponse, error) {
	s.logger.Debug("get leaves by user requested", zap.Int64("user_id", userID))
	lvs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("get leaves by user failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(lvs), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (LeaveResponse, error) {
	s.logger.Debug("get leave by id requested", zap.Int64("leave_id", id))
	lv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get leave by id failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lv), nil
}

func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]LeaveResponse, int64, error) {
	s.logger.Debug("get all leaves requested",
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	lvs, total, err := s.repo.FindPage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(lvs), total, nil
}

func mapToResponse(lv LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:           lv.ID,
		UUID:         lv.UUID.String(),
		UserID:       lv.UserID,
		Date:         lv.Date.Format("2006-01-02"),
		Reason:       lv.Reason,
		Status:       lv.Status,
		AdminComment: lv.AdminComment,
		CreatedAt:    lv.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(lvs []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, len(lvs))
	for i, l := range lvs {
		res[i] = mapToResponse(l)
	}
	return res
}
