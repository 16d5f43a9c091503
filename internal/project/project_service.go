package project

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	projecterrors "go-worklog/internal/project/errors"
	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const ProjectOptionsKey = "projects:options"

//go:generate mockgen -source=project_service.go -destination=mock/project_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*ProjectResponse, error)
	GetAll(ctx context.Context, actorRole, actorID string) ([]ProjectResponse, error)
	GetOptions(ctx context.Context) ([]ProjectOption, error)
	Update(ctx context.Context, id string, req UpdateProjectRequest) (*ProjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	log := zap.L().Named("project.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("project.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: log,
	}
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	managerID, err := uuid.Parse(req.ProjectManagerID)
	if err != nil {
		return nil, projecterrors.ErrInvalidProjectManager
	}

	p := &Project{
		ID:               uuid.New(),
		Code:             strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:      strings.TrimSpace(req.Description),
		ProjectManagerID: managerID,
		EstimatedHours:   req.EstimatedHours,
		TeamMembers:      TeamMembers(req.TeamMembers),
	}
	if p.TeamMembers == nil {
		p.TeamMembers = TeamMembers{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, projecterrors.ErrDuplicateCode
		}
		s.logger.Error("create project failed", zap.Error(err))
		return nil, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("project created",
		zap.String("project_id", p.ID.String()),
		zap.String("code", p.Code),
	)
	return toResponse(p), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, projecterrors.ErrInvalidProjectID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projecterrors.ErrProjectNotFound
		}
		return nil, err
	}
	return toResponse(p), nil
}

// GetAll scopes the listing by actor. Managers and admins see every
// project, employees only those they are a team member of.
func (s *service) GetAll(ctx context.Context, actorRole, actorID string) ([]ProjectResponse, error) {
	var (
		projects []Project
		err      error
	)
	if actorRole == workflow.RoleManager || actorRole == workflow.RoleAdmin {
		projects, err = s.repo.FindAll(ctx)
	} else {
		projects, err = s.repo.FindForMember(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, *toResponse(&projects[i]))
	}
	return out, nil
}

func (s *service) GetOptions(ctx context.Context) ([]ProjectOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ProjectOptionsKey).Result(); err == nil {
			var resp []ProjectOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ProjectOptionsKey, func() (interface{}, error) {
		options, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(options); err == nil {
				s.rdb.Set(ctx, ProjectOptionsKey, jsonData, time.Hour)
			}
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]ProjectOption), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateProjectRequest) (*ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, projecterrors.ErrInvalidProjectID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projecterrors.ErrProjectNotFound
		}
		return nil, err
	}

	managerID, err := uuid.Parse(req.ProjectManagerID)
	if err != nil {
		return nil, projecterrors.ErrInvalidProjectManager
	}

	p.Description = strings.TrimSpace(req.Description)
	p.ProjectManagerID = managerID
	p.EstimatedHours = req.EstimatedHours
	p.TeamMembers = TeamMembers(req.TeamMembers)
	if p.TeamMembers == nil {
		p.TeamMembers = TeamMembers{}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update project failed", zap.String("project_id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateOptions(ctx)
	return toResponse(p), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return projecterrors.ErrInvalidProjectID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return projecterrors.ErrProjectNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete project failed", zap.String("project_id", id), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ProjectOptionsKey).Err(); err != nil {
		s.logger.Warn("invalidate project options cache failed", zap.Error(err))
	}
}

func toResponse(p *Project) *ProjectResponse {
	return &ProjectResponse{
		ID:               p.ID.String(),
		Code:             p.Code,
		Description:      p.Description,
		ProjectManagerID: p.ProjectManagerID.String(),
		EstimatedHours:   p.EstimatedHours,
		TeamMembers:      p.TeamMembers,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}
