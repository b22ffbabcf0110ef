package task_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-attend/internal/messaging/kafka"
	"go-attend/internal/task"
	taskerrors "go-attend/internal/task/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTaskRepository struct {
	createFn          func(ctx context.Context, tk *task.Task) error
	findByIDFn        func(ctx context.Context, id int64) (*task.Task, error)
	findByIDAndUserFn func(ctx context.Context, id, userID int64) (*task.Task, error)
	findByUserFn      func(ctx context.Context, userID int64) ([]task.Task, error)
	findDueOnDateFn   func(ctx context.Context, userID int64, date time.Time) ([]task.Task, error)
	findAllFn         func(ctx context.Context) ([]task.Task, error)
	updateFn          func(ctx context.Context, tk *task.Task) error
}

func (f *fakeTaskRepository) WithTx(tx *sql.Tx) task.Repository { return f }

func (f *fakeTaskRepository) Create(ctx context.Context, tk *task.Task) error {
	if f.createFn != nil {
		return f.createFn(ctx, tk)
	}
	return nil
}

func (f *fakeTaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaskRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*task.Task, error) {
	if f.findByIDAndUserFn != nil {
		return f.findByIDAndUserFn(ctx, id, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaskRepository) FindByUser(ctx context.Context, userID int64) ([]task.Task, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeTaskRepository) FindDueOnDate(ctx context.Context, userID int64, date time.Time) ([]task.Task, error) {
	if f.findDueOnDateFn != nil {
		return f.findDueOnDateFn(ctx, userID, date)
	}
	return nil, nil
}

func (f *fakeTaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeTaskRepository) Update(ctx context.Context, tk *task.Task) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, tk)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type taskServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service task.Service
	repo    *fakeTaskRepository
	outbox  *fakeOutboxRepository
}

func setupTaskServiceTest(t *testing.T) *taskServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTaskRepository{}
	outbox := &fakeOutboxRepository{}
	svc := task.NewServiceWithOutbox(db, repo, &fakeCounterRepository{}, outbox)

	return &taskServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with generated code and outbox event", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.createFn = func(ctx context.Context, tk *task.Task) error {
			assert.Equal(t, "TSK-000001", tk.Code)
			assert.Equal(t, task.StatusPending, tk.Status)
			assert.Equal(t, int64(7), tk.UserID)
			tk.ID = 21
			return nil
		}

		resp, err := deps.service.Create(ctx, task.CreateTaskRequest{
			Title:       "Write weekly report",
			Description: "Summarize sprint progress",
			DueDate:     "2026-09-07",
			UserID:      7,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(21), resp.ID)
		assert.Equal(t, "TSK-000001", resp.Code)
		assert.Equal(t, task.StatusPending, resp.Status)

		assert.Len(t, deps.outbox.created, 1)
		event := deps.outbox.created[0]
		assert.Equal(t, "task_assigned", event.EventType)

		var payload map[string]any
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, float64(7), payload["user_id"])
		assert.Equal(t, "2026-09-07", payload["due_date"])

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid due date", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, task.CreateTaskRequest{
			Title:   "Broken",
			DueDate: "07-09-2026",
			UserID:  7,
		})

		assert.ErrorIs(t, err, taskerrors.ErrInvalidDueDate)
	})
}

func TestTaskService_Submit(t *testing.T) {
	ctx := context.Background()
	dueDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	t.Run("success sets comment and submit time", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDAndUserFn = func(ctx context.Context, id, userID int64) (*task.Task, error) {
			assert.Equal(t, int64(21), id)
			assert.Equal(t, int64(7), userID)
			return &task.Task{ID: 21, UserID: 7, DueDate: dueDate, Status: task.StatusPending}, nil
		}

		var updated *task.Task
		deps.repo.updateFn = func(ctx context.Context, tk *task.Task) error {
			updated = tk
			return nil
		}

		resp, err := deps.service.Submit(ctx, 21, 7, task.SubmitTaskRequest{SubmitComment: "Done, see attachment"})

		assert.NoError(t, err)
		assert.Equal(t, "Done, see attachment", resp.SubmitComment)
		assert.NotEmpty(t, resp.SubmittedAt)
		// Status tidak berubah saat submit
		assert.Equal(t, task.StatusPending, resp.Status)

		assert.NotNil(t, updated)
		assert.NotNil(t, updated.SubmittedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("resubmission overwrites previous submission", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		firstSubmit := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
		deps.repo.findByIDAndUserFn = func(ctx context.Context, id, userID int64) (*task.Task, error) {
			return &task.Task{
				ID:            21,
				UserID:        7,
				DueDate:       dueDate,
				Status:        task.StatusPending,
				SubmitComment: "First try",
				SubmittedAt:   &firstSubmit,
			}, nil
		}

		resp, err := deps.service.Submit(ctx, 21, 7, task.SubmitTaskRequest{SubmitComment: "Second try"})

		assert.NoError(t, err)
		assert.Equal(t, "Second try", resp.SubmitComment)
		assert.NotEqual(t, firstSubmit.Format(time.RFC3339), resp.SubmittedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not the assignee looks like not found", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByIDAndUserFn = func(ctx context.Context, id, userID int64) (*task.Task, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, 21, 99, task.SubmitTaskRequest{SubmitComment: "Not mine"})

		assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTaskService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("approve success", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 21, UserID: 7, Status: task.StatusPending}, nil
		}

		resp, err := deps.service.Approve(ctx, 21, task.DecideTaskRequest{AdminComment: "Good work"})

		assert.NoError(t, err)
		assert.Equal(t, task.StatusApproved, resp.Status)
		assert.Equal(t, "Good work", resp.AdminComment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject success", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 21, UserID: 7, Status: task.StatusPending}, nil
		}

		resp, err := deps.service.Reject(ctx, 21, task.DecideTaskRequest{})

		assert.NoError(t, err)
		assert.Equal(t, task.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative second decision is blocked", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 21, UserID: 7, Status: task.StatusApproved}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, tk *task.Task) error {
			t.Fatal("update must not be called for a decided task")
			return nil
		}

		_, err := deps.service.Reject(ctx, 21, task.DecideTaskRequest{})

		assert.ErrorIs(t, err, taskerrors.ErrTaskAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.findByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, 99, task.DecideTaskRequest{})

		assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTaskService_GetMineToday(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		today := time.Now().UTC().Truncate(24 * time.Hour)
		deps.repo.findDueOnDateFn = func(ctx context.Context, userID int64, date time.Time) ([]task.Task, error) {
			assert.Equal(t, today, date)
			return []task.Task{{ID: 21, UserID: userID, DueDate: date, Status: task.StatusPending}}, nil
		}

		resp, err := deps.service.GetMineToday(ctx, 7)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative empty day", func(t *testing.T) {
		deps := setupTaskServiceTest(t)
		defer deps.db.Close()

		deps.repo.findDueOnDateFn = func(ctx context.Context, userID int64, date time.Time) ([]task.Task, error) {
			return nil, nil
		}

		_, err := deps.service.GetMineToday(ctx, 7)

		assert.ErrorIs(t, err, taskerrors.ErrNoTasksToday)
	})
}
