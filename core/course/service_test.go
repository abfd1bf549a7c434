package course_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/course"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func TestCountByCourse(t *testing.T) {
	tests := []struct {
		name        string
		assignments []course.Assignment
		want        map[string]int
	}{
		{name: "none", want: map[string]int{}},
		{
			name: "grouped",
			assignments: []course.Assignment{
				{ID: "a1", CourseID: "c1"},
				{ID: "a2", CourseID: "c2"},
				{ID: "a3", CourseID: "c1"},
				{ID: "a4"},
			},
			want: map[string]int{"c1": 2, "c2": 1, course.UnknownCourse: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, course.CountByCourse(tt.assignments))
		})
	}
}

func TestService(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	teacher := testutil.CreateUser(t, env, "uid-guru", "Ibu Guru", user.RoleTeacher)
	colleague := testutil.CreateUser(t, env, "uid-guru2", "Pak Guru", user.RoleTeacher)
	student := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")

	_, err := env.CourseSvc.Create(ctx, student, course.NewCourse{Title: "Jaringan Dasar"})
	assert.Equal(t, core.ErrPermissionDenied, err)
	_, err = env.CourseSvc.Create(ctx, teacher, course.NewCourse{Title: "JD"})
	assert.Error(t, err)

	c, err := env.CourseSvc.Create(ctx, teacher, course.NewCourse{Title: " Jaringan Dasar ", Kelas: "X TKJ 1", StudentCount: 32})
	require.NoError(t, err)
	assert.Equal(t, course.Course{ID: c.ID, Title: "Jaringan Dasar", Kelas: "X TKJ 1", StudentCount: 32, TeacherID: teacher.ID}, c)

	due := core.NewTimestamp(time.Date(2026, 11, 2, 7, 0, 0, 0, time.UTC))
	tests := []struct {
		name    string
		actor   user.User
		na      course.NewAssignment
		wantErr error
	}{
		{name: "student", actor: student, na: course.NewAssignment{Title: "Subnetting", CourseID: c.ID}, wantErr: core.ErrPermissionDenied},
		{name: "other teacher's course", actor: colleague, na: course.NewAssignment{Title: "Subnetting", CourseID: c.ID}, wantErr: core.ErrPermissionDenied},
		{name: "valid", actor: teacher, na: course.NewAssignment{Title: "Subnetting", CourseID: c.ID, DueDate: due}},
		{name: "second", actor: teacher, na: course.NewAssignment{Title: "Kabel UTP", CourseID: c.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := env.CourseSvc.CreateAssignment(ctx, tt.actor, tt.na)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.ID, a.CourseID)
			assert.Equal(t, teacher.ID, a.TeacherID)
			assert.Equal(t, tt.na.DueDate, a.DueDate)
		})
	}

	t.Run("unknown course", func(t *testing.T) {
		_, err := env.CourseSvc.CreateAssignment(ctx, teacher, course.NewAssignment{Title: "Subnetting", CourseID: "ghost"})
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "courseId", verr.Fields[0].Field)
	})

	courses, err := env.CourseSvc.QueryByTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, []course.Course{c}, courses)

	courses, err = env.CourseSvc.QueryByTeacher(ctx, colleague.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)

	counts, err := env.CourseSvc.AssignmentCounts(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{c.ID: 2}, counts)
}
