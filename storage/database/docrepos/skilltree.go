package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
)

type skillTreeRepository struct {
	store core.DocStore
	trees collection[skilltree.Tree]
}

var _ skilltree.Repository = (*skillTreeRepository)(nil)

func NewSkillTreeRepository(store core.DocStore) skilltree.Repository {
	return &skillTreeRepository{
		store: store,
		trees: newCollection[skilltree.Tree](store, skillTreesPath, skilltree.ErrNotFound),
	}
}

func (repo *skillTreeRepository) tiers(treeID string) collection[skilltree.Tier] {
	return newCollection[skilltree.Tier](repo.store, subPath(skillTreesPath, treeID, tiersPath), nil)
}

func (repo *skillTreeRepository) QueryTrees(ctx context.Context) ([]skilltree.Tree, error) {
	return repo.trees.query(ctx, nil, nil, 0)
}

func (repo *skillTreeRepository) GetTree(ctx context.Context, id string) (skilltree.Tree, error) {
	t, err := repo.trees.get(ctx, id)
	if err != nil {
		return skilltree.Tree{}, err
	}
	if t.Tiers, err = repo.tiers(id).query(ctx, nil, orderBy("order", true), 0); err != nil {
		return skilltree.Tree{}, err
	}
	return t, nil
}

// SaveTree replaces the tree document and its tiers. Stored tiers missing from t are deleted.
func (repo *skillTreeRepository) SaveTree(ctx context.Context, t skilltree.Tree) error {
	tiers := repo.tiers(t.ID)
	stored, err := tiers.query(ctx, nil, nil, 0)
	if err != nil {
		return err
	}

	if err = repo.trees.set(ctx, t.ID, skilltree.Tree{ID: t.ID, Name: t.Name}); err != nil {
		return errors.Wrap(err, "saving skill tree")
	}
	keep := make(map[string]bool, len(t.Tiers))
	for _, tier := range t.Tiers {
		keep[tier.ID] = true
		if err = tiers.set(ctx, tier.ID, tier); err != nil {
			return errors.Wrap(err, "saving tier")
		}
	}
	for _, tier := range stored {
		if !keep[tier.ID] {
			if err = tiers.delete(ctx, tier.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
