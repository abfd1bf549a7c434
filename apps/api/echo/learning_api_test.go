package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/course"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/tutor"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func Test_tutorApi(t *testing.T) {
	srv, env := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)

	topics := []tutor.LearningTopic{
		{ID: "jaringan-dasar", Label: "Jaringan Dasar", Order: 2},
		{ID: "pemrograman-web", Label: "Pemrograman Web", Order: 1},
	}
	for _, topic := range topics {
		require.NoError(t, env.TutorRepo.SaveTopic(ctx, topic))
	}

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "topics in order",
			method:   http.MethodGet,
			path:     "/v1/learning-topics",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []tutor.LearningTopic{topics[1], topics[0]}),
		},
		{
			name:     "empty topic",
			method:   http.MethodPost,
			path:     "/v1/tutor/learning-plan",
			body:     []byte(`{"topicId": ""}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"topicId": tutor.ErrInvalidTopic.Error()}),
		},
		{
			name:     "unknown topic",
			method:   http.MethodPost,
			path:     "/v1/tutor/learning-plan",
			body:     []byte(`{"topicId": "sulap"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"topicId": tutor.ErrUnknownTopic.Error()}),
		},
	})

	// nothing is written for rejected requests
	_, err := env.TutorRepo.GetQuizResult(ctx, tutor.QuizResultID(usr.ID, "sulap"))
	assert.Equal(t, tutor.ErrQuizResultNotFound, err)

	var first tutor.LearningPlan
	for i := 0; i < 2; i++ {
		req, rec := newAuthRequest(http.MethodPost, "/v1/tutor/learning-plan", token, []byte(`{"topicId": "jaringan-dasar"}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var plan tutor.LearningPlan
		unmarshalBody(t, rec, &plan)
		assert.Equal(t, topics[0], plan.Topic)
		assert.Equal(t, tutor.SimulatedResults, plan.QuizResult.Results)
		assert.NotEmpty(t, plan.Recommendations)
		assert.NotEmpty(t, plan.Assistance)
		if i == 0 {
			first = plan
		} else {
			// the quiz result is created once and reused
			assert.Equal(t, first.QuizResult.CreatedAt.Time, plan.QuizResult.CreatedAt.Time)
		}
	}
}

func Test_skillTreeApi(t *testing.T) {
	srv, env := setup(t)
	testutil.SeedSkillTree(t, env)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "student cannot unlock",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/skills",
			body:     []byte(`{"skillId": "sk01"}`),
			token:    getToken(t, srv, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbiddenBody),
		},
		{
			name:     "skill outside the tree",
			method:   http.MethodPost,
			path:     "/v1/users/" + student.ID + "/skills",
			body:     []byte(`{"skillId": "sk99"}`),
			token:    getToken(t, srv, teacher),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"skillId": skilltree.ErrUnknownSkill.Error()}),
		},
	})

	for _, skillID := range []string{"sk01", "sk02", "sk02"} {
		req, rec := newAuthRequest(
			http.MethodPost,
			"/v1/users/"+student.ID+"/skills",
			getToken(t, srv, teacher),
			[]byte(`{"skillId": "`+skillID+`"}`),
		)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/skill-tree", getToken(t, srv, student))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var progress skilltree.Progress
	unmarshalBody(t, rec, &progress)
	assert.Equal(t, 3, progress.TotalSkills)
	assert.Equal(t, 2, progress.UnlockedSkills)
	assert.Equal(t, 67, progress.MajorProgress)
	assert.Equal(t, 1, progress.CertificatesEarned)
	if assert.Len(t, progress.Tiers, 2) {
		assert.True(t, progress.Tiers[0].Complete)
		assert.False(t, progress.Tiers[1].Complete)
	}

	// staff may browse a tree without progress
	req, rec = newAuthRequest(http.MethodGet, "/v1/skill-tree?major=tkj", getToken(t, srv, teacher))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	unmarshalBody(t, rec, &progress)
	assert.Equal(t, 0, progress.UnlockedSkills)
}

func Test_courseApi(t *testing.T) {
	srv, env := setup(t)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)
	other := testutil.CreateUser(t, env, "uid-guru2", "Pak Guru", user.RoleTeacher)
	token := getToken(t, srv, teacher)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "student cannot create",
			method:   http.MethodPost,
			path:     "/v1/courses",
			body:     []byte(`{"title": "Jaringan Dasar", "kelas": "X TKJ 1", "studentCount": 30}`),
			token:    getToken(t, srv, student),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "title too short",
			method:   http.MethodPost,
			path:     "/v1/courses",
			body:     []byte(`{"title": "JD"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "assignment for unknown course",
			method:   http.MethodPost,
			path:     "/v1/assignments",
			body:     []byte(`{"title": "Laporan", "courseId": "lol"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/courses", token, []byte(`{"title": "Jaringan Dasar", "kelas": "X TKJ 1", "studentCount": 30}`))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var c course.Course
	unmarshalBody(t, rec, &c)
	assert.Equal(t, teacher.ID, c.TeacherID)

	body := []byte(`{"title": "Laporan Praktikum", "courseId": "` + c.ID + `", "dueDate": "2026-11-02T07:00:00Z"}`)
	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, srv, other), body)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/assignments", token, body)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	runHTTPTests(t, srv, []httpTest{
		{name: "own courses", method: http.MethodGet, path: "/v1/courses", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []course.Course{c})},
		{name: "other teacher", method: http.MethodGet, path: "/v1/courses", token: getToken(t, srv, other), wantCode: http.StatusOK, wantData: []byte(`[]`)},
	})

	counts, err := env.CourseSvc.AssignmentCounts(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{c.ID: 1}, counts)
}
