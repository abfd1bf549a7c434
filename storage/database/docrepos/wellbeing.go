package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/wellbeing"
)

type wellbeingRepository struct {
	store    core.DocStore
	requests collection[wellbeing.CounselingRequest]
}

var _ wellbeing.Repository = (*wellbeingRepository)(nil)

func NewWellbeingRepository(store core.DocStore) wellbeing.Repository {
	return &wellbeingRepository{
		store:    store,
		requests: newCollection[wellbeing.CounselingRequest](store, counselingRequestsPath, nil),
	}
}

func (repo *wellbeingRepository) checkIns(uid string) collection[wellbeing.CheckIn] {
	return newCollection[wellbeing.CheckIn](repo.store, subPath(usersPath, uid, moodCheckInsPath), nil)
}

func (repo *wellbeingRepository) CreateCheckIn(ctx context.Context, uid string, c wellbeing.CheckIn) (wellbeing.CheckIn, error) {
	id, err := repo.checkIns(uid).create(ctx, c.ID, c)
	if err != nil {
		return wellbeing.CheckIn{}, err
	}
	c.ID = id
	return c, nil
}

func (repo *wellbeingRepository) QueryCheckIns(ctx context.Context, uid string) ([]wellbeing.CheckIn, error) {
	return repo.checkIns(uid).query(ctx, nil, orderBy("createdAt", false), 0)
}

func (repo *wellbeingRepository) CreateCounselingRequest(ctx context.Context, r wellbeing.CounselingRequest) (wellbeing.CounselingRequest, error) {
	id, err := repo.requests.create(ctx, r.ID, r)
	if err != nil {
		return wellbeing.CounselingRequest{}, err
	}
	r.ID = id
	return r, nil
}
