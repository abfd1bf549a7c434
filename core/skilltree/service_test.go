package skilltree_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func TestService_Tree(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	tkj := testutil.SeedSkillTree(t, env)
	rpl := skilltree.Tree{ID: "rpl", Name: "Rekayasa Perangkat Lunak", Tiers: []skilltree.Tier{
		{ID: "dasar", Name: "Dasar", Order: 1, Skills: []skilltree.Skill{{ID: "rpl01", Name: "Algoritma"}}},
	}}
	require.NoError(t, env.SkillTreeSvc.Seed(ctx, rpl))

	tests := []struct {
		name   string
		major  string
		wantID string
	}{
		{name: "default", major: "", wantID: tkj.ID},
		{name: "by id", major: "rpl", wantID: rpl.ID},
		{name: "by name", major: "rekayasa perangkat lunak", wantID: rpl.ID},
		{name: "unknown major", major: "Tata Boga", wantID: tkj.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.SkillTreeSvc.Tree(ctx, tt.major)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}

	got, err := env.SkillTreeSvc.Tree(ctx, tkj.ID)
	require.NoError(t, err)
	assert.Equal(t, tkj, got)
}

func TestService_Seed_replacesTiers(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	tree := testutil.SeedSkillTree(t, env)

	tree.Tiers = tree.Tiers[:1]
	require.NoError(t, env.SkillTreeSvc.Seed(ctx, tree))

	got, err := env.SkillTreeSvc.Tree(ctx, tree.ID)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestService_Unlock(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	testutil.SeedSkillTree(t, env)
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")

	_, err := env.SkillTreeSvc.Unlock(ctx, student, student.ID, "sk01")
	assert.Equal(t, core.ErrPermissionDenied, err)

	_, err = env.SkillTreeSvc.Unlock(ctx, teacher, student.ID, "rpl01")
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, skilltree.ErrUnknownSkill, verr.Err)
	assert.Equal(t, "skillId", verr.Fields[0].Field)

	_, err = env.SkillTreeSvc.Unlock(ctx, teacher, "uid-ghost", "sk01")
	assert.Equal(t, user.ErrProfileNotFound, errors.Cause(err))

	for _, id := range []string{"sk01", " sk02 ", "sk01"} {
		_, err = env.SkillTreeSvc.Unlock(ctx, teacher, student.ID, id)
		require.NoError(t, err)
	}
	prof, err := env.UserSvc.GetProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sk01", "sk02"}, prof.UnlockedSkills)

	progress, err := env.SkillTreeSvc.Progress(ctx, prof)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.MajorProgress)
	assert.Equal(t, 1, progress.CertificatesEarned)
}

func TestService_Progress_noTree(t *testing.T) {
	env := testutil.NewEnv(t)

	_, err := env.SkillTreeSvc.Progress(context.Background(), user.Profile{ID: "uid-budi", Jurusan: user.DefaultJurusan})
	assert.True(t, core.IsNotFound(err))
}
