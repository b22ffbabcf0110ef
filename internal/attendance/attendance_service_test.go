package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-attend/internal/attendance"
	attendanceerrors "go-attend/internal/attendance/errors"
	"go-attend/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	createFn              func(ctx context.Context, att *attendance.Attendance) error
	findByIDFn            func(ctx context.Context, id int64) (*attendance.Attendance, error)
	findByUserFn          func(ctx context.Context, userID int64) ([]attendance.Attendance, error)
	findByUserAndDateFn   func(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error)
	findAllFn             func(ctx context.Context) ([]attendance.Attendance, error)
	findAllByDateFn       func(ctx context.Context, date time.Time) ([]attendance.Attendance, error)
	findAbsenteesByDateFn func(ctx context.Context, date time.Time) ([]attendance.AbsenteeRow, error)
	countPresentInRangeFn func(ctx context.Context, userID int64, start, end time.Time) (int64, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, att *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, att)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByID(ctx context.Context, id int64) (*attendance.Attendance, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByUser(ctx context.Context, userID int64) ([]attendance.Attendance, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error) {
	if f.findByUserAndDateFn != nil {
		return f.findByUserAndDateFn(ctx, userID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAll(ctx context.Context) ([]attendance.Attendance, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAllByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if f.findAllByDateFn != nil {
		return f.findAllByDateFn(ctx, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindAbsenteesByDate(ctx context.Context, date time.Time) ([]attendance.AbsenteeRow, error) {
	if f.findAbsenteesByDateFn != nil {
		return f.findAbsenteesByDateFn(ctx, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) CountPresentInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	if f.countPresentInRangeFn != nil {
		return f.countPresentInRangeFn(ctx, userID, start, end)
	}
	return 0, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func TestAttendanceService_Mark(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.createFn = func(ctx context.Context, att *attendance.Attendance) error {
			assert.Equal(t, int64(7), att.UserID)
			assert.Equal(t, attendance.StatusPresent, att.Status)
			assert.Equal(t, today(), att.Date)
			att.ID = 42
			return nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.Mark(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
	})

	t.Run("negative duplicate marking", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.createFn = func(ctx context.Context, att *attendance.Attendance) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendances_user_date"}
		}

		svc := attendance.NewService(repo)
		_, err := svc.Mark(ctx, 7)

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 409, httpErr.Status)
	})

	t.Run("negative db error passthrough", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.createFn = func(ctx context.Context, att *attendance.Attendance) error {
			return errors.New("connection reset")
		}

		svc := attendance.NewService(repo)
		_, err := svc.Mark(ctx, 7)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
	})
}

func TestAttendanceService_GetMineToday(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.findByUserAndDateFn = func(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error) {
			assert.Equal(t, today(), date)
			return &attendance.Attendance{ID: 1, UserID: userID, Date: date, Status: attendance.StatusPresent}, nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.GetMineToday(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
	})

	t.Run("negative not marked yet", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.findByUserAndDateFn = func(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		svc := attendance.NewService(repo)
		_, err := svc.GetMineToday(ctx, 7)

		assert.ErrorIs(t, err, attendanceerrors.ErrNotMarkedToday)
	})
}

func TestAttendanceService_Absentees(t *testing.T) {
	ctx := context.Background()

	t.Run("success derives from missing rows", func(t *testing.T) {
		date := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
		repo := &fakeAttendanceRepository{}
		repo.findAbsenteesByDateFn = func(ctx context.Context, d time.Time) ([]attendance.AbsenteeRow, error) {
			assert.Equal(t, date, d)
			return []attendance.AbsenteeRow{
				{UserID: 3, Name: "Alice", Email: "alice@example.com"},
				{UserID: 5, Name: "Bob", Email: "bob@example.com"},
			}, nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.Absentees(ctx, date)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, int64(3), resp[0].UserID)
		assert.Equal(t, "Bob", resp[1].Name)
	})

	t.Run("success empty day", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		repo.findAbsenteesByDateFn = func(ctx context.Context, d time.Time) ([]attendance.AbsenteeRow, error) {
			return nil, nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.Absentees(ctx, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestAttendanceService_Grade(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10) // rentang 10 hari

	gradeWith := func(t *testing.T, present int64) attendance.GradeResponse {
		t.Helper()
		repo := &fakeAttendanceRepository{}
		repo.countPresentInRangeFn = func(ctx context.Context, userID int64, s, e time.Time) (int64, error) {
			assert.Equal(t, start, s)
			// Batas akhir inklusif sampai penghujung hari terakhir
			assert.True(t, e.After(end))
			assert.True(t, e.Before(end.AddDate(0, 0, 1)))
			return present, nil
		}

		svc := attendance.NewService(repo)
		resp, err := svc.Grade(ctx, 7, start, end)
		assert.NoError(t, err)
		return resp
	}

	t.Run("full presence is A", func(t *testing.T) {
		resp := gradeWith(t, 10)
		assert.Equal(t, 10, resp.TotalDays)
		assert.Equal(t, 10, resp.PresentDays)
		assert.InDelta(t, 100.0, resp.Percentage, 0.001)
		assert.Equal(t, "A", resp.Grade)
	})

	t.Run("exactly 90 percent is B not A", func(t *testing.T) {
		resp := gradeWith(t, 9)
		assert.InDelta(t, 90.0, resp.Percentage, 0.001)
		assert.Equal(t, "B", resp.Grade)
	})

	t.Run("exactly 50 percent is F", func(t *testing.T) {
		resp := gradeWith(t, 5)
		assert.InDelta(t, 50.0, resp.Percentage, 0.001)
		assert.Equal(t, "F", resp.Grade)
	})

	t.Run("zero presence is F", func(t *testing.T) {
		resp := gradeWith(t, 0)
		assert.Equal(t, "F", resp.Grade)
	})

	t.Run("negative zero day range", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewService(repo)

		_, err := svc.Grade(ctx, 7, start, start)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidGradeRange)
	})

	t.Run("negative inverted range", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewService(repo)

		_, err := svc.Grade(ctx, 7, end, start)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidGradeRange)
	})
}
