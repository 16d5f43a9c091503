package project

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByCode(ctx context.Context, code string) (*Project, error)
	FindAll(ctx context.Context) ([]Project, error)
	FindForMember(ctx context.Context, userID string) ([]Project, error)
	FindOptions(ctx context.Context) ([]ProjectOption, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).First(&p, "code = ?", code).Error
	return &p, err
}

func (r *repository) FindAll(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&projects).Error
	return projects, err
}

// FindForMember returns only the projects whose team_members array
// contains the given user id. Uses the jsonb containment operator so
// the GIN index on team_members applies.
func (r *repository) FindForMember(ctx context.Context, userID string) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Where(`team_members @> ?`, `["`+userID+`"]`).
		Order("code ASC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) FindOptions(ctx context.Context) ([]ProjectOption, error) {
	var options []ProjectOption
	err := r.db.WithContext(ctx).
		Model(&Project{}).
		Select("id", "code", "description").
		Order("code ASC").
		Find(&options).Error
	return options, err
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}
