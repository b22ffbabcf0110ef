package auth

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	autherrors "go-attend/internal/auth/errors"
	"go-attend/internal/shared/contextutil"
	"go-attend/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// OptionsCacheInvalidator membersihkan cache dropdown user setelah signup
type OptionsCacheInvalidator interface {
	InvalidateOptionsCache(ctx context.Context)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (user.UserResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error)
}

type service struct {
	users     user.Repository
	options   OptionsCacheInvalidator
	jwtSecret []byte
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(users user.Repository, options OptionsCacheInvalidator, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		users:     users,
		options:   options,
		jwtSecret: []byte(os.Getenv("JWT_SECRET")),
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (user.UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("signup requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("signup hash password failed", zap.String("request_id", rid), zap.Error(err))
		return user.UserResponse{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = user.RoleUser
	}

	usr := &user.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     role,
		Address:  strings.TrimSpace(req.Address),
		Phone:    strings.TrimSpace(req.Phone),
		Image:    strings.TrimSpace(req.Image),
	}

	if err := s.users.Create(ctx, usr); err != nil {
		s.logger.Warn("signup persist failed", zap.String("request_id", rid), zap.Error(err))
		return user.UserResponse{}, mapSignUpError(err)
	}

	if s.options != nil {
		s.options.InvalidateOptionsCache(ctx)
	}

	s.logger.Info("signup success",
		zap.String("request_id", rid),
		zap.Int64("user_id", usr.ID),
		zap.String("role", usr.Role),
	)

	return user.MapToResponse(*usr), nil
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.logger.Debug("signin requested",
		zap.String("request_id", rid),
		zap.String("email", email),
	)

	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Pesan sama dengan password salah agar tidak bocor email mana yang terdaftar
			return SignInResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("signin lookup failed", zap.String("request_id", rid), zap.Error(err))
		return SignInResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(req.Password)); err != nil {
		return SignInResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(usr)
	if err != nil {
		s.logger.Error("signin token generation failed", zap.String("request_id", rid), zap.Error(err))
		return SignInResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("signin success",
		zap.String("request_id", rid),
		zap.Int64("user_id", usr.ID),
	)

	return SignInResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
		User:        user.MapToResponse(*usr),
	}, nil
}

func (s *service) generateToken(usr *user.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(usr.ID, 10),
		"role":    usr.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func mapSignUpError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_users_email" {
			return autherrors.ErrEmailAlreadyRegistered
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_users_email") {
		return autherrors.ErrEmailAlreadyRegistered
	}

	return err
}
