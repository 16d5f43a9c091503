package project_test

import (
	"context"
	"testing"

	"go-worklog/internal/project"
	projecterrors "go-worklog/internal/project/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeProjectRepo struct {
	createFn        func(ctx context.Context, p *project.Project) error
	findByIDFn      func(ctx context.Context, id string) (*project.Project, error)
	findByCodeFn    func(ctx context.Context, code string) (*project.Project, error)
	findAllFn       func(ctx context.Context) ([]project.Project, error)
	findForMemberFn func(ctx context.Context, userID string) ([]project.Project, error)
	findOptionsFn   func(ctx context.Context) ([]project.ProjectOption, error)
	updateFn        func(ctx context.Context, p *project.Project) error
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *project.Project) error {
	return f.createFn(ctx, p)
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id string) (*project.Project, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeProjectRepo) FindByCode(ctx context.Context, code string) (*project.Project, error) {
	return f.findByCodeFn(ctx, code)
}

func (f *fakeProjectRepo) FindAll(ctx context.Context) ([]project.Project, error) {
	return f.findAllFn(ctx)
}

func (f *fakeProjectRepo) FindForMember(ctx context.Context, userID string) ([]project.Project, error) {
	return f.findForMemberFn(ctx, userID)
}

func (f *fakeProjectRepo) FindOptions(ctx context.Context) ([]project.ProjectOption, error) {
	return f.findOptionsFn(ctx)
}

func (f *fakeProjectRepo) Update(ctx context.Context, p *project.Project) error {
	return f.updateFn(ctx, p)
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes code", func(t *testing.T) {
		var stored *project.Project
		repo := &fakeProjectRepo{
			createFn: func(ctx context.Context, p *project.Project) error {
				stored = p
				return nil
			},
		}
		svc := project.NewService(repo, nil)

		resp, err := svc.Create(ctx, project.CreateProjectRequest{
			Code:             " acme-web ",
			Description:      "ACME customer website",
			ProjectManagerID: uuid.New().String(),
			EstimatedHours:   120,
		})

		assert.NoError(t, err)
		assert.Equal(t, "ACME-WEB", resp.Code)
		assert.Equal(t, "ACME-WEB", stored.Code)
		assert.NotNil(t, stored.TeamMembers)
	})

	t.Run("negative duplicate code maps to conflict", func(t *testing.T) {
		repo := &fakeProjectRepo{
			createFn: func(ctx context.Context, p *project.Project) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := project.NewService(repo, nil)

		_, err := svc.Create(ctx, project.CreateProjectRequest{
			Code:             "ACME",
			Description:      "Acme",
			ProjectManagerID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, projecterrors.ErrDuplicateCode)
	})

	t.Run("negative malformed manager id", func(t *testing.T) {
		svc := project.NewService(&fakeProjectRepo{}, nil)

		_, err := svc.Create(ctx, project.CreateProjectRequest{
			Code:             "ACME",
			Description:      "Acme",
			ProjectManagerID: "not-a-uuid",
		})

		assert.ErrorIs(t, err, projecterrors.ErrInvalidProjectManager)
	})
}

func TestProjectService_GetAll(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New().String()

	all := []project.Project{
		{ID: uuid.New(), Code: "A", Description: "Alpha", ProjectManagerID: uuid.New(), TeamMembers: project.TeamMembers{memberID}},
		{ID: uuid.New(), Code: "B", Description: "Beta", ProjectManagerID: uuid.New(), TeamMembers: project.TeamMembers{}},
	}

	repo := &fakeProjectRepo{
		findAllFn: func(ctx context.Context) ([]project.Project, error) {
			return all, nil
		},
		findForMemberFn: func(ctx context.Context, userID string) ([]project.Project, error) {
			assert.Equal(t, memberID, userID)
			return all[:1], nil
		},
	}
	svc := project.NewService(repo, nil)

	t.Run("manager sees everything", func(t *testing.T) {
		resp, err := svc.GetAll(ctx, "manager", uuid.New().String())
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("employee sees only own memberships", func(t *testing.T) {
		resp, err := svc.GetAll(ctx, "employee", memberID)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "A", resp[0].Code)
	})
}

func TestProjectService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("success without cache backend", func(t *testing.T) {
		calls := 0
		repo := &fakeProjectRepo{
			findOptionsFn: func(ctx context.Context) ([]project.ProjectOption, error) {
				calls++
				return []project.ProjectOption{{ID: uuid.New().String(), Code: "A", Description: "Alpha"}}, nil
			},
		}
		svc := project.NewService(repo, nil)

		resp, err := svc.GetOptions(ctx)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, 1, calls)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("negative not found", func(t *testing.T) {
		repo := &fakeProjectRepo{
			findByIDFn: func(ctx context.Context, id string) (*project.Project, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := project.NewService(repo, nil)

		err := svc.Delete(ctx, uuid.New().String())
		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		svc := project.NewService(&fakeProjectRepo{}, nil)
		assert.ErrorIs(t, svc.Delete(ctx, "zzz"), projecterrors.ErrInvalidProjectID)
	})
}

func TestTeamMembers_Contains(t *testing.T) {
	id := uuid.New().String()
	members := project.TeamMembers{id}

	assert.True(t, members.Contains(id))
	assert.False(t, members.Contains(uuid.New().String()))
}
