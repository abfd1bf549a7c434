package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/announcement"
	"github.com/osisproject0-hub/smaktal/core/dashboard"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func Test_campusApi_leaderboard(t *testing.T) {
	srv, env := setup(t)

	var top []user.User
	for i := 1; i <= 6; i++ {
		usr := testutil.CreateUser(t, env, fmt.Sprintf("uid-%d", i), fmt.Sprintf("Siswa %d", i), "")
		testutil.SetPoints(t, env, usr.ID, i*10)
		usr.Points = i * 10
		top = append([]user.User{usr}, top...)
	}
	top = top[:5] // uid-1 has the fewest points
	rank := 2

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "ranked",
			method:   http.MethodGet,
			path:     "/v1/leaderboard",
			token:    getToken(t, srv, top[1]),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LeaderboardResponse{Leaderboard: top, UserRank: &rank}),
		},
		{
			name:     "outside the top",
			method:   http.MethodGet,
			path:     "/v1/leaderboard",
			token:    getToken(t, srv, user.User{ID: "uid-1"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LeaderboardResponse{Leaderboard: top}),
		},
	})
}

func Test_campusApi_awardPoints(t *testing.T) {
	srv, env := setup(t)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)
	testutil.SetPoints(t, env, student.ID, 20)

	awarded := student
	awarded.Points = 45

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "student cannot award",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/points",
			body:     []byte(`{"delta": 10}`),
			token:    getToken(t, srv, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbiddenBody),
		},
		{
			name:     "zero delta",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/points",
			body:     []byte(`{"delta": 0}`),
			token:    getToken(t, srv, teacher),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"delta": "this field is required"}`),
		},
		{
			name:     "below zero",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/points",
			body:     []byte(`{"delta": -21}`),
			token:    getToken(t, srv, teacher),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"delta": "points cannot go below zero"}`),
		},
		{
			name:     "unknown student",
			method:   http.MethodPost,
			path:     "/v1/users/lol/points",
			body:     []byte(`{"delta": 5}`),
			token:    getToken(t, srv, teacher),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/points",
			body:     []byte(`{"delta": 25}`),
			token:    getToken(t, srv, teacher),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, awarded),
		},
	})

	prof, err := env.UserSvc.GetProfile(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, prof.Points)
}

func Test_campusApi_lists(t *testing.T) {
	srv, env := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)

	garuda, err := env.HouseSvc.Create(ctx, house.NewHouse{Name: "Garuda", TotalPoints: 100})
	require.NoError(t, err)
	nusantara, err := env.HouseSvc.Create(ctx, house.NewHouse{Name: "Nusantara", TotalPoints: 200})
	require.NoError(t, err)
	ann, err := env.AnnouncementSvc.Create(ctx, "Admin", announcement.NewAnnouncement{
		Title:   "Ujian Tengah Semester",
		Content: "Ujian dimulai hari Senin pukul 07.30.",
	})
	require.NoError(t, err)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "houses by points",
			method:   http.MethodGet,
			path:     "/v1/houses",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []house.House{nusantara, garuda}),
		},
		{
			name:     "announcements",
			method:   http.MethodGet,
			path:     "/v1/announcements",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []announcement.Announcement{ann}),
		},
		{name: "no resources", method: http.MethodGet, path: "/v1/resources", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "houses need a session", method: http.MethodGet, path: "/v1/houses", wantCode: http.StatusUnauthorized},
	})
}

func Test_campusApi_dashboard(t *testing.T) {
	srv, env := setup(t)
	testutil.SeedSkillTree(t, env)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)
	admin := testutil.CreateUser(t, env, "uid-admin", "Pak Admin", user.RoleAdmin)

	tests := []struct {
		name  string
		usr   user.User
		check func(t *testing.T, ov dashboard.Overview)
	}{
		{
			name: "student",
			usr:  student,
			check: func(t *testing.T, ov dashboard.Overview) {
				assert.Equal(t, dashboard.ViewStudent, ov.View)
				if assert.NotNil(t, ov.Student) {
					assert.Equal(t, 3, ov.Student.SkillTree.TotalSkills)
					assert.Len(t, ov.Student.Leaderboard, 3)
				}
			},
		},
		{
			name: "teacher",
			usr:  teacher,
			check: func(t *testing.T, ov dashboard.Overview) {
				assert.Equal(t, dashboard.ViewTeacher, ov.View)
				assert.NotNil(t, ov.Teacher)
				assert.Nil(t, ov.Student)
			},
		},
		{
			name: "admin",
			usr:  admin,
			check: func(t *testing.T, ov dashboard.Overview) {
				assert.Equal(t, dashboard.ViewAdmin, ov.View)
				if assert.NotNil(t, ov.Admin) {
					assert.Equal(t, 3, ov.Admin.Users)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, srv, tt.usr))
			srv.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var ov dashboard.Overview
			unmarshalBody(t, rec, &ov)
			tt.check(t, ov)
		})
	}
}
