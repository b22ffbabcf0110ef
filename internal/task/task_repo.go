package task

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	FindByIDAndUser(ctx context.Context, id, userID int64) (*Task, error)
	FindByUser(ctx context.Context, userID int64) ([]Task, error)
	FindDueOnDate(ctx context.Context, userID int64, date time.Time) ([]Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	Update(ctx context.Context, t *Task) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx mengikat semua operasi repo ke transaksi pemanggil.
// ConnPool diganti ke *sql.Tx supaya tidak ada statement yang lolos
// autocommit di pool dasar.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txDB := r.db.Session(&gorm.Session{NewDB: true})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

// FindByIDAndUser membatasi lookup ke pemilik task. Task milik orang lain
// tampak tidak ada, bukan forbidden, agar id tidak bisa ditebak-tebak.
func (r *repository) FindByIDAndUser(ctx context.Context, id, userID int64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		First(&t, "id = ? AND user_id = ?", id, userID).Error
	return &t, err
}

func (r *repository) FindByUser(ctx context.Context, userID int64) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindDueOnDate(ctx context.Context, userID int64, date time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date = ?", userID, date).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindAll(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}
