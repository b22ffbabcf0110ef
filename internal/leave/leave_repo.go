package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lv *LeaveRequest) error
	FindByID(ctx context.Context, id int64) (*LeaveRequest, error)
	FindByUser(ctx context.Context, userID int64) ([]LeaveRequest, error)
	FindPage(ctx context.Context, limit, offset int) ([]LeaveRequest, int64, error)
	Update(ctx context.Context, lv *LeaveRequest) error
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

func (r *repository) Create(ctx context.Context, lv *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lv).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*LeaveRequest, error) {
	var lv LeaveRequest
	err := r.db.WithContext(ctx).First(&lv, "id = ?", id).Error
	return &lv, err
}

func (r *repository) FindByUser(ctx context.Context, userID int64) ([]LeaveRequest, error) {
	var lvs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lvs).Error
	return lvs, err
}

// FindPage mendorong LIMIT/OFFSET ke database agar halaman pertama tidak
// perlu memuat seluruh tabel.
func (r *repository) FindPage(ctx context.Context, limit, offset int) ([]LeaveRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&LeaveRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lvs []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&lvs).Error
	return lvs, total, err
}

func (r *repository) Update(ctx context.Context, lv *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lv).Error
}
