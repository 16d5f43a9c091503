package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	usererrors "go-worklog/internal/user/errors"
	"go-worklog/internal/workflow"

	"go-worklog/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	log := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: log}
}

const defaultLeaveBalance = 20

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create user", http.StatusInternalServerError)
	}

	managerID, err := s.resolveReportingManager(ctx, req.ReportingManagerID)
	if err != nil {
		return nil, err
	}

	balance := float64(defaultLeaveBalance)
	if req.LeaveBalance != nil {
		balance = *req.LeaveBalance
	}

	u := &User{
		ID:                 uuid.New(),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Password:           string(hashed),
		Name:               normalizeName(req.Name),
		Role:               req.Role,
		ReportingManagerID: managerID,
		LeaveBalance:       balance,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, usererrors.ErrEmailAlreadyExists
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return toResponse(u), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return toResponse(u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toResponse(&users[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}

	managerID, err := s.resolveReportingManager(ctx, req.ReportingManagerID)
	if err != nil {
		return nil, err
	}

	u.Name = normalizeName(req.Name)
	u.Role = req.Role
	u.ReportingManagerID = managerID
	if req.LeaveBalance != nil {
		u.LeaveBalance = *req.LeaveBalance
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update user", http.StatusInternalServerError)
		}
		u.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	return toResponse(u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// resolveReportingManager validates the referenced user exists and can
// actually approve things. Employees cannot be reporting managers.
func (s *service) resolveReportingManager(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, usererrors.ErrInvalidReportingManager
	}

	manager, err := s.repo.FindByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrInvalidReportingManager
		}
		return nil, err
	}
	if manager.Role != workflow.RoleManager && manager.Role != workflow.RoleAdmin {
		return nil, usererrors.ErrInvalidReportingManager
	}

	return &id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var nameCaser = cases.Title(language.English)

func normalizeName(name string) string {
	return nameCaser.String(strings.TrimSpace(name))
}

func toResponse(u *User) *UserResponse {
	resp := &UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		LeaveBalance: u.LeaveBalance,
		CreatedAt:    u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if u.ReportingManagerID != nil {
		id := u.ReportingManagerID.String()
		resp.ReportingManagerID = &id
	}
	return resp
}
