package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/house"
)

type houseRepository struct {
	houses collection[house.House]
}

var _ house.Repository = (*houseRepository)(nil)

func NewHouseRepository(store core.DocStore) house.Repository {
	return &houseRepository{houses: newCollection[house.House](store, housesPath, house.ErrNotFound)}
}

func (repo *houseRepository) QueryHouses(ctx context.Context) ([]house.House, error) {
	return repo.houses.query(ctx, nil, orderBy("totalPoints", false), 0)
}

func (repo *houseRepository) GetHouse(ctx context.Context, id string) (house.House, error) {
	return repo.houses.get(ctx, id)
}

func (repo *houseRepository) CreateHouse(ctx context.Context, h house.House) (house.House, error) {
	id, err := repo.houses.create(ctx, h.ID, h)
	if err != nil {
		return house.House{}, err
	}
	h.ID = id
	return h, nil
}

func (repo *houseRepository) UpdateHouse(ctx context.Context, h house.House) error {
	return repo.houses.set(ctx, h.ID, h)
}

func (repo *houseRepository) DeleteHouse(ctx context.Context, id string) error {
	return repo.houses.delete(ctx, id)
}
