package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-attend/internal/shared/contextutil"
	usererrors "go-attend/internal/user/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const UserOptionsKey = "users:options"

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetMe(ctx context.Context, userID int64) (UserResponse, error)
	GetByID(ctx context.Context, id int64) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetOptions(ctx context.Context) ([]UserOption, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (UserResponse, error)
	InvalidateOptionsCache(ctx context.Context)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetMe(ctx context.Context, userID int64) (UserResponse, error) {
	s.logger.Debug("get me requested", zap.Int64("user_id", userID))
	usr, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("get me failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	return MapToResponse(*usr), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (UserResponse, error) {
	s.logger.Debug("get user by id requested", zap.Int64("user_id", id))
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get user by id failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	return MapToResponse(*usr), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	s.logger.Debug("get all users requested")
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all users failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	if len(users) == 0 {
		return nil, usererrors.ErrNoUsersFound
	}

	return mapToListResponse(users), nil
}

func (s *service) GetOptions(ctx context.Context) ([]UserOption, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, UserOptionsKey).Result(); err == nil {
			var resp []UserOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight untuk handle traffic tinggi saat Admin buka form penugasan
	v, err, _ := s.sf.Do(UserOptionsKey, func() (interface{}, error) {
		users, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]UserOption, len(users))
		for i, u := range users {
			resp[i] = UserOption{ID: u.ID, Name: u.Name}
		}

		// 3. Simpan ke Redis (TTL 1 jam cukup karena data master)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, UserOptionsKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]UserOption), nil
}

func (s *service) UpdateProfile(
	ctx context.Context,
	userID int64,
	req UpdateProfileRequest,
) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update profile requested",
		zap.String("request_id", rid),
		zap.Int64("user_id", userID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	usr, err := qtx.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("update profile fetch existing failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		usr.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		usr.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		usr.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Image != nil {
		usr.Image = strings.TrimSpace(*req.Image)
	}

	if err := qtx.Update(ctx, usr); err != nil {
		s.logger.Error("update profile persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}

	s.InvalidateOptionsCache(ctx)

	s.logger.Info("update profile success",
		zap.String("request_id", rid),
		zap.Int64("user_id", userID),
	)

	return MapToResponse(*usr), nil
}

// InvalidateOptionsCache dipanggil juga oleh auth service setelah signup
func (s *service) InvalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, UserOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate user options cache",
			zap.Error(err),
			zap.String("key", UserOptionsKey),
		)
	}
}

func MapToResponse(usr User) UserResponse {
	return UserResponse{
		ID:        usr.ID,
		UUID:      usr.UUID.String(),
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		Address:   usr.Address,
		Phone:     usr.Phone,
		Image:     usr.Image,
		CreatedAt: usr.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(users []User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = MapToResponse(u)
	}
	return res
}
