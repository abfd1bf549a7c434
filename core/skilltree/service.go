package skilltree

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

var (
	ErrNotFound     = core.NewNotFoundError("skill tree")
	ErrUnknownSkill = errors.New("skill does not exist in this skill tree")
)

type (
	Repository interface {
		// QueryTrees returns the tree documents without their tiers.
		QueryTrees(ctx context.Context) ([]Tree, error)
		// GetTree returns the tree with its tiers ordered by Order.
		GetTree(ctx context.Context, id string) (Tree, error)
		// SaveTree writes the tree and all its tiers.
		SaveTree(ctx context.Context, t Tree) error
	}

	Service struct {
		repo         Repository
		users        user.Repository
		defaultMajor string
	}
)

func NewService(repo Repository, users user.Repository, conf *core.Config) *Service {
	return &Service{repo: repo, users: users, defaultMajor: conf.SkillTreeMajor}
}

// Tree returns the skill tree of major. major may be a tree ID or a tree name (a profile's jurusan);
// the default tree is used when nothing matches.
func (svc *Service) Tree(ctx context.Context, major string) (Tree, error) {
	id, err := svc.resolve(ctx, major)
	if err != nil {
		return Tree{}, err
	}
	return svc.repo.GetTree(ctx, id)
}

func (svc *Service) resolve(ctx context.Context, major string) (string, error) {
	major = core.CleanString(major)
	if major == "" {
		return svc.defaultMajor, nil
	}
	trees, err := svc.repo.QueryTrees(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(err, "querying skill trees")
	}
	for _, t := range trees {
		if t.ID == major || strings.EqualFold(t.Name, major) {
			return t.ID, nil
		}
	}
	return svc.defaultMajor, nil
}

// Progress returns the student's progress on the tree of their major.
func (svc *Service) Progress(ctx context.Context, prof user.Profile) (Progress, error) {
	t, err := svc.Tree(ctx, prof.Jurusan)
	if err != nil {
		return Progress{}, err
	}
	return ComputeProgress(t, prof.UnlockedSkills), nil
}

// Unlock marks skillID as unlocked for studentID. Only staff may unlock skills, and the skill must
// belong to the student's tree. Unlocking twice is a no-op.
func (svc *Service) Unlock(ctx context.Context, actor user.User, studentID, skillID string) (user.Profile, error) {
	if !actor.IsStaff() {
		return user.Profile{}, core.ErrPermissionDenied
	}
	skillID = core.CleanString(skillID)

	prof, err := svc.users.GetProfile(ctx, studentID)
	if err != nil {
		return user.Profile{}, err
	}
	t, err := svc.Tree(ctx, prof.Jurusan)
	if err != nil {
		return user.Profile{}, err
	}
	if !t.HasSkill(skillID) {
		return user.Profile{}, core.NewValidationError(ErrUnknownSkill, core.FieldError{Field: "skillId", Error: ErrUnknownSkill.Error()})
	}
	if prof.HasUnlocked(skillID) {
		return prof, nil
	}

	prof.UnlockedSkills = append(prof.UnlockedSkills, skillID)
	if err = svc.users.UpdateProfile(ctx, studentID, map[string]interface{}{
		user.FieldUnlockedSkills: prof.UnlockedSkills,
	}); err != nil {
		return user.Profile{}, pkgerrors.Wrap(err, "unlocking skill")
	}
	return prof, nil
}

// Seed writes t and its tiers, replacing what is stored.
func (svc *Service) Seed(ctx context.Context, t Tree) error {
	return svc.repo.SaveTree(ctx, t)
}
