package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Env, *bytes.Buffer) {
	env := testutil.NewEnv(t)
	out := new(bytes.Buffer)

	return &commandLine{
		usrSvc: env.UserSvc,
		seeder: &seeder{
			houses:    env.HouseRepo,
			resources: env.ResourceRepo,
			topics:    env.TutorRepo,
			skills:    env.SkillTreeSvc,
		},
		in:  new(bytes.Buffer),
		out: out,
	}, env, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	runMigrationsFunc = func(command string, db *sqlx.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_index", "sql"}},
	})
}

func Test_commandLine_setRole(t *testing.T) {
	cli, env, out := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"setrole"}, wantErr: errHelp},
		{name: "uid but no role", args: []string{"setrole", "-uid", usr.ID}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"setrole", "-username", usr.ID}, wantErr: errHelp},
		{name: "user not found", args: []string{"setrole", "-uid", "lol", "-role", "teacher"}, wantErr: user.ErrNotFound},
		{name: "make teacher", args: []string{"setrole", "-uid", usr.ID, "-role", "Teacher"}},
	})

	got, err := env.UserSvc.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, got.Role)
	assert.Contains(t, out.String(), usr.ID+" is now teacher")

	err = cli.run([]string{"admin", "setrole", "-uid", usr.ID, "-role", "principal"})
	var vErr *core.ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.Equal(t, "role", vErr.Fields[0].Field)
	}
}

func Test_commandLine_setRole_confirmAdmin(t *testing.T) {
	cli, env, _ := setup(t)
	usr := testutil.CreateUser(t, env, "uid-ani", "Ani Wijaya", "")

	isTerminal := isTerminalFunc
	isTerminalFunc = func(int) bool { return true }
	defer func() { isTerminalFunc = isTerminal }()

	tests := []struct {
		name     string
		answer   string
		wantErr  error
		wantRole string
	}{
		{name: "declined", answer: "n\n", wantErr: errAborted, wantRole: user.RoleStudent},
		{name: "no answer", answer: "", wantErr: errAborted, wantRole: user.RoleStudent},
		{name: "confirmed", answer: "y\n", wantRole: user.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w, err := os.Pipe()
			require.NoError(t, err)
			_, _ = w.WriteString(tt.answer)
			_ = w.Close()
			defer r.Close()
			cli.in = r

			err = cli.run([]string{"admin", "setrole", "-uid", usr.ID, "-role", "admin"})
			assert.Equal(t, tt.wantErr, err)

			got, err := env.UserSvc.GetByID(context.Background(), usr.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli, env, out := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Contains(t, out.String(), "seeded 4 houses, 3 resources, 4 learning topics and 8 skills")

	houses, err := env.HouseSvc.Query(ctx)
	require.NoError(t, err)
	if assert.Len(t, houses, 4) {
		assert.Equal(t, "nusantara", houses[0].ID) // most points first
	}

	topics, err := env.TutorSvc.Topics(ctx)
	require.NoError(t, err)
	if assert.Len(t, topics, 4) {
		assert.Equal(t, "pemrograman-web", topics[0].ID)
	}

	tree, err := env.SkillTreeSvc.Tree(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 8, tree.TotalSkills())
	assert.Len(t, tree.Tiers, 4)

	// seeding again keeps the houses' points
	_, err = env.HouseSvc.Update(ctx, "garuda", house.UpdateHouse{Name: "Garuda", TotalPoints: 20000})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Contains(t, out.String(), "seeded 0 houses")

	h, err := env.HouseSvc.GetByID(ctx, "garuda")
	require.NoError(t, err)
	assert.Equal(t, 20000, h.TotalPoints)
}
