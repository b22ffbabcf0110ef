package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// AbsenteeRow adalah hasil anti-join: user yang tidak punya baris absensi
// pada tanggal tertentu.
type AbsenteeRow struct {
	UserID int64
	Name   string
	Email  string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, att *Attendance) error
	FindByID(ctx context.Context, id int64) (*Attendance, error)
	FindByUser(ctx context.Context, userID int64) ([]Attendance, error)
	FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context) ([]Attendance, error)
	FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	FindAbsenteesByDate(ctx context.Context, date time.Time) ([]AbsenteeRow, error)
	CountPresentInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, att *Attendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Attendance, error) {
	var att Attendance
	err := r.db.WithContext(ctx).First(&att, "id = ?", id).Error
	return &att, err
}

func (r *repository) FindByUser(ctx context.Context, userID int64) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&atts).Error
	return atts, err
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*Attendance, error) {
	var att Attendance
	err := r.db.WithContext(ctx).
		First(&att, "user_id = ? AND date = ?", userID, date).Error
	return &att, err
}

func (r *repository) FindAll(ctx context.Context) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Order("date DESC, user_id ASC").
		Find(&atts).Error
	return atts, err
}

func (r *repository) FindAllByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("user_id ASC").
		Find(&atts).Error
	return atts, err
}

// FindAbsenteesByDate menurunkan daftar absen dari ketiadaan baris,
// bukan dari baris berstatus ABSENT.
func (r *repository) FindAbsenteesByDate(ctx context.Context, date time.Time) ([]AbsenteeRow, error) {
	var rows []AbsenteeRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.name, u.email
		FROM users u
		WHERE u.role = 'USER'
		  AND NOT EXISTS (
			SELECT 1 FROM attendances a
			WHERE a.user_id = u.id AND a.date = ?
		  )
		ORDER BY u.name ASC
	`, date).Scan(&rows).Error
	return rows, err
}

func (r *repository) CountPresentInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusPresent).
		Where("date >= ? AND date <= ?", start, end).
		Count(&count).Error
	return count, err
}
