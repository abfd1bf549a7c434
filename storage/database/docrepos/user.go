package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type userRepository struct {
	store core.DocStore
	users collection[user.User]
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(store core.DocStore) user.Repository {
	users := newCollection[user.User](store, usersPath, user.ErrNotFound)
	users.exists = user.ErrExists
	return &userRepository{store: store, users: users}
}

func (repo *userRepository) profiles(uid string) collection[user.Profile] {
	return newCollection[user.Profile](repo.store, subPath(usersPath, uid, profilesPath), user.ErrProfileNotFound)
}

func (repo *userRepository) GetUser(ctx context.Context, id string) (user.User, error) {
	return repo.users.get(ctx, id)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if _, err := repo.users.create(ctx, usr.ID, usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context) ([]user.User, error) {
	return repo.users.query(ctx, nil, orderBy("displayName", true), 0)
}

func (repo *userRepository) TopUsersByPoints(ctx context.Context, limit int) ([]user.User, error) {
	return repo.users.query(ctx, nil, orderBy(user.FieldPoints, false), limit)
}

func (repo *userRepository) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	return repo.users.update(ctx, id, fields)
}

func (repo *userRepository) GetProfile(ctx context.Context, uid string) (user.Profile, error) {
	prof, err := repo.profiles(uid).get(ctx, uid)
	if err != nil {
		return user.Profile{}, err
	}
	if prof.UnlockedSkills == nil {
		prof.UnlockedSkills = []string{}
	}
	return prof, nil
}

func (repo *userRepository) CreateProfile(ctx context.Context, prof user.Profile) error {
	_, err := repo.profiles(prof.ID).create(ctx, prof.ID, prof)
	if errors.Cause(err) == core.ErrDocExists {
		return nil
	}
	return err
}

func (repo *userRepository) UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	return repo.profiles(uid).update(ctx, uid, fields)
}
