package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/resource"
)

type resourceRepository struct {
	resources collection[resource.Resource]
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(store core.DocStore) resource.Repository {
	return &resourceRepository{resources: newCollection[resource.Resource](store, resourcesPath, resource.ErrNotFound)}
}

func (repo *resourceRepository) QueryResources(ctx context.Context) ([]resource.Resource, error) {
	return repo.resources.query(ctx, nil, orderBy("title", true), 0)
}

func (repo *resourceRepository) GetResource(ctx context.Context, id string) (resource.Resource, error) {
	return repo.resources.get(ctx, id)
}

func (repo *resourceRepository) CreateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	id, err := repo.resources.create(ctx, r.ID, r)
	if err != nil {
		return resource.Resource{}, err
	}
	r.ID = id
	return r, nil
}

func (repo *resourceRepository) SaveResource(ctx context.Context, r resource.Resource) error {
	return repo.resources.set(ctx, r.ID, r)
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	return repo.resources.delete(ctx, id)
}
