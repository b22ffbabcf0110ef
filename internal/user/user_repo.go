package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, usr *User) error
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindOptions(ctx context.Context) ([]User, error)
	Update(ctx context.Context, usr *User) error
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

func (r *repository) Create(ctx context.Context, usr *User) error {
	return r.db.WithContext(ctx).Create(usr).Error
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var usr User
	err := r.db.WithContext(ctx).First(&usr, "id = ?", id).Error
	return &usr, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var usr User
	err := r.db.WithContext(ctx).First(&usr, "email = ?", email).Error
	return &usr, err
}

func (r *repository) FindOptions(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("role = ?", RoleUser).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, usr *User) error {
	return r.db.WithContext(ctx).Save(usr).Error
}
