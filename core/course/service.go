package course

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

var ErrNotFound = core.NewNotFoundError("course")

type (
	Repository interface {
		GetCourse(ctx context.Context, id string) (Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		CreateCourse(ctx context.Context, c Course) (Course, error)
		QueryAssignmentsByTeacher(ctx context.Context, teacherID string) ([]Assignment, error)
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID string) ([]Course, error) {
	return svc.repo.QueryCoursesByTeacher(ctx, teacherID)
}

// AssignmentCounts returns the number of assignments of teacherID per course.
func (svc *Service) AssignmentCounts(ctx context.Context, teacherID string) (map[string]int, error) {
	assignments, err := svc.repo.QueryAssignmentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return CountByCourse(assignments), nil
}

// Create opens a course taught by actor, who must be a teacher.
func (svc *Service) Create(ctx context.Context, actor user.User, nc NewCourse) (Course, error) {
	if !actor.IsTeacher() {
		return Course{}, core.ErrPermissionDenied
	}
	nc.Title = core.CleanString(nc.Title)
	nc.Kelas = core.CleanString(nc.Kelas)
	if err := svc.validate.Struct(nc); err != nil {
		return Course{}, err
	}
	c, err := svc.repo.CreateCourse(ctx, Course{
		Title:        nc.Title,
		Kelas:        nc.Kelas,
		StudentCount: nc.StudentCount,
		TeacherID:    actor.ID,
	})
	return c, errors.Wrap(err, "creating course")
}

// CreateAssignment adds an assignment to one of actor's courses.
func (svc *Service) CreateAssignment(ctx context.Context, actor user.User, na NewAssignment) (Assignment, error) {
	if !actor.IsTeacher() {
		return Assignment{}, core.ErrPermissionDenied
	}
	na.Title = core.CleanString(na.Title)
	if err := svc.validate.Struct(na); err != nil {
		return Assignment{}, err
	}
	c, err := svc.repo.GetCourse(ctx, na.CourseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Assignment{}, core.NewValidationError(err, core.FieldError{Field: "courseId", Error: err.Error()})
		}
		return Assignment{}, err
	}
	if c.TeacherID != actor.ID {
		return Assignment{}, core.ErrPermissionDenied
	}
	a, err := svc.repo.CreateAssignment(ctx, Assignment{
		Title:     na.Title,
		CourseID:  c.ID,
		TeacherID: actor.ID,
		DueDate:   na.DueDate,
	})
	return a, errors.Wrap(err, "creating assignment")
}
