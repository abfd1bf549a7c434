package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/course"
)

type courseRepository struct {
	courses     collection[course.Course]
	assignments collection[course.Assignment]
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(store core.DocStore) course.Repository {
	return &courseRepository{
		courses:     newCollection[course.Course](store, coursesPath, course.ErrNotFound),
		assignments: newCollection[course.Assignment](store, assignmentsPath, nil),
	}
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	return repo.courses.get(ctx, id)
}

func (repo *courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]course.Course, error) {
	return repo.courses.query(ctx, where("teacherId", teacherID), nil, 0)
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	id, err := repo.courses.create(ctx, c.ID, c)
	if err != nil {
		return course.Course{}, err
	}
	c.ID = id
	return c, nil
}

func (repo *courseRepository) QueryAssignmentsByTeacher(ctx context.Context, teacherID string) ([]course.Assignment, error) {
	return repo.assignments.query(ctx, where("teacherId", teacherID), nil, 0)
}

func (repo *courseRepository) CreateAssignment(ctx context.Context, a course.Assignment) (course.Assignment, error) {
	id, err := repo.assignments.create(ctx, a.ID, a)
	if err != nil {
		return course.Assignment{}, err
	}
	a.ID = id
	return a, nil
}
