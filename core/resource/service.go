package resource

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

var ErrNotFound = core.NewNotFoundError("resource")

type (
	Repository interface {
		QueryResources(ctx context.Context) ([]Resource, error)
		GetResource(ctx context.Context, id string) (Resource, error)
		CreateResource(ctx context.Context, r Resource) (Resource, error)
		// SaveResource writes r under its own ID, replacing any existing document.
		SaveResource(ctx context.Context, r Resource) error
		DeleteResource(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context) ([]Resource, error) {
	return svc.repo.QueryResources(ctx)
}

func (svc *Service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	nr.Clean()
	if err := svc.validate.Struct(nr); err != nil {
		return Resource{}, err
	}
	r, err := svc.repo.CreateResource(ctx, Resource{
		Title:   nr.Title,
		Type:    nr.Type,
		Source:  nr.Source,
		ImageID: nr.ImageID,
	})
	return r, errors.Wrap(err, "creating resource")
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateResource) (Resource, error) {
	ur.Clean()
	if err := svc.validate.Struct(ur); err != nil {
		return Resource{}, err
	}
	if _, err := svc.repo.GetResource(ctx, id); err != nil {
		return Resource{}, err
	}
	r := Resource{
		ID:      id,
		Title:   ur.Title,
		Type:    ur.Type,
		Source:  ur.Source,
		ImageID: ur.ImageID,
	}
	if err := svc.repo.SaveResource(ctx, r); err != nil {
		return Resource{}, errors.Wrap(err, "updating resource")
	}
	return r, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetResource(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteResource(ctx, id)
}
