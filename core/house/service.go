package house

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

var ErrNotFound = core.NewNotFoundError("house")

type (
	Repository interface {
		// QueryHouses returns all houses, highest TotalPoints first.
		QueryHouses(ctx context.Context) ([]House, error)
		GetHouse(ctx context.Context, id string) (House, error)
		CreateHouse(ctx context.Context, h House) (House, error)
		UpdateHouse(ctx context.Context, h House) error
		DeleteHouse(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context) ([]House, error) {
	return svc.repo.QueryHouses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (House, error) {
	return svc.repo.GetHouse(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nh NewHouse) (House, error) {
	nh.Clean()
	if err := svc.validate.Struct(nh); err != nil {
		return House{}, err
	}
	h, err := svc.repo.CreateHouse(ctx, House{
		Name:        nh.Name,
		TotalPoints: nh.TotalPoints,
		EmblemURL:   nh.EmblemURL,
	})
	return h, errors.Wrap(err, "creating house")
}

func (svc *Service) Update(ctx context.Context, id string, uh UpdateHouse) (House, error) {
	uh.Clean()
	if err := svc.validate.Struct(uh); err != nil {
		return House{}, err
	}
	if _, err := svc.repo.GetHouse(ctx, id); err != nil {
		return House{}, err
	}
	h := House{
		ID:          id,
		Name:        uh.Name,
		TotalPoints: uh.TotalPoints,
		EmblemURL:   uh.EmblemURL,
	}
	if err := svc.repo.UpdateHouse(ctx, h); err != nil {
		return House{}, errors.Wrap(err, "updating house")
	}
	return h, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetHouse(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteHouse(ctx, id)
}
