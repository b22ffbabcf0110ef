package attendance

import (
	"context"
	"math"
	"time"

	attendanceerrors "go-attend/internal/attendance/errors"
	"go-attend/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, userID int64) (AttendanceResponse, error)
	GetMine(ctx context.Context, userID int64) ([]AttendanceResponse, error)
	GetMineToday(ctx context.Context, userID int64) (AttendanceResponse, error)
	GetByID(ctx context.Context, id int64) (AttendanceResponse, error)
	GetByUser(ctx context.Context, userID int64) ([]AttendanceResponse, error)
	GetAllOfAllTime(ctx context.Context) ([]AttendanceResponse, error)
	GetAllToday(ctx context.Context) ([]AttendanceResponse, error)
	GetAllByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error)
	Absentees(ctx context.Context, date time.Time) ([]AbsenteeResponse, error)
	Grade(ctx context.Context, userID int64, start, end time.Time) (GradeResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		repo:   repo,
		now:    time.Now,
		logger: l,
	}
}

// truncateToDay memotong waktu ke tengah malam UTC
func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func (s *service) Mark(ctx context.Context, userID int64) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	today := truncateToDay(s.now())
	s.logger.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.Int64("user_id", userID),
		zap.Time("date", today),
	)

	att := &Attendance{
		UserID: userID,
		Date:   today,
		Status: StatusPresent,
	}

	// Tidak ada pre-check baris hari ini. Constraint unik (user_id, date)
	// yang memutuskan pemenang saat dua request datang bersamaan.
	if err := s.repo.Create(ctx, att); err != nil {
		s.logger.Warn("mark attendance persist failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.Int64("user_id", userID),
		zap.Int64("attendance_id", att.ID),
	)

	return mapToResponse(*att), nil
}

func (s *service) GetMine(ctx context.Context, userID int64) ([]AttendanceResponse, error) {
	s.logger.Debug("get my attendances requested", zap.Int64("user_id", userID))
	atts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("get my attendances failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(atts), nil
}

func (s *service) GetMineToday(ctx context.Context, userID int64) (AttendanceResponse, error) {
	today := truncateToDay(s.now())
	s.logger.Debug("get my attendance today requested",
		zap.Int64("user_id", userID),
		zap.Time("date", today),
	)

	att, err := s.repo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		mapped := mapRepositoryError(err)
		if mapped == attendanceerrors.ErrAttendanceNotFound {
			return AttendanceResponse{}, attendanceerrors.ErrNotMarkedToday
		}
		s.logger.Error("get my attendance today failed", zap.Error(err))
		return AttendanceResponse{}, mapped
	}
	return mapToResponse(*att), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (AttendanceResponse, error) {
	s.logger.Debug("get attendance by id requested", zap.Int64("attendance_id", id))
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get attendance by id failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*att), nil
}

func (s *service) GetByUser(ctx context.Context, userID int64) ([]AttendanceResponse, error) {
	s.logger.Debug("get attendances by user requested", zap.Int64("user_id", userID))
	atts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("get attendances by user failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(atts), nil
}

func (s *service) GetAllOfAllTime(ctx context.Context) ([]AttendanceResponse, error) {
	s.logger.Debug("get all attendances requested")
	atts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all attendances failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(atts), nil
}

func (s *service) GetAllToday(ctx context.Context) ([]AttendanceResponse, error) {
	return s.GetAllByDate(ctx, s.now())
}

func (s *service) GetAllByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error) {
	day := truncateToDay(date)
	s.logger.Debug("get attendances by date requested", zap.Time("date", day))
	atts, err := s.repo.FindAllByDate(ctx, day)
	if err != nil {
		s.logger.Error("get attendances by date failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(atts), nil
}

// Absentees menghitung siapa yang absen dari ketiadaan baris absensi,
// bukan dari baris berstatus ABSENT.
func (s *service) Absentees(ctx context.Context, date time.Time) ([]AbsenteeResponse, error) {
	day := truncateToDay(date)
	s.logger.Debug("get absentees requested", zap.Time("date", day))

	rows, err := s.repo.FindAbsenteesByDate(ctx, day)
	if err != nil {
		s.logger.Error("get absentees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]AbsenteeResponse, len(rows))
	for i, r := range rows {
		resp[i] = AbsenteeResponse{UserID: r.UserID, Name: r.Name, Email: r.Email}
	}
	return resp, nil
}

func (s *service) Grade(ctx context.Context, userID int64, start, end time.Time) (GradeResponse, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	s.logger.Debug("grade requested",
		zap.Int64("user_id", userID),
		zap.Time("start", startDay),
		zap.Time("end", endDay),
	)

	totalDays := int(math.Ceil(endDay.Sub(startDay).Hours() / 24))
	if totalDays <= 0 {
		return GradeResponse{}, attendanceerrors.ErrInvalidGradeRange
	}

	// Akhir rentang inklusif sampai detik terakhir hari itu
	rangeEnd := endDay.Add(24*time.Hour - time.Millisecond)
	presentCount, err := s.repo.CountPresentInRange(ctx, userID, startDay, rangeEnd)
	if err != nil {
		s.logger.Error("grade count failed", zap.Error(err))
		return GradeResponse{}, mapRepositoryError(err)
	}

	percentage := float64(presentCount) / float64(totalDays) * 100

	grade := "F"
	switch {
	case percentage > 90:
		grade = "A"
	case percentage > 80:
		grade = "B"
	case percentage > 70:
		grade = "C"
	case percentage > 60:
		grade = "D"
	case percentage > 50:
		grade = "E"
	}

	s.logger.Info("grade computed",
		zap.Int64("user_id", userID),
		zap.Int("total_days", totalDays),
		zap.Int64("present_days", presentCount),
		zap.Float64("percentage", percentage),
		zap.String("grade", grade),
	)

	return GradeResponse{
		UserID:      userID,
		TotalDays:   totalDays,
		PresentDays: int(presentCount),
		Percentage:  percentage,
		Grade:       grade,
	}, nil
}

func mapToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        att.ID,
		UUID:      att.UUID.String(),
		UserID:    att.UserID,
		Date:      att.Date.Format("2006-01-02"),
		Status:    att.Status,
		CreatedAt: att.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(atts []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(atts))
	for i, a := range atts {
		res[i] = mapToResponse(a)
	}
	return res
}
