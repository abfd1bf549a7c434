package course

import "github.com/osisproject0-hub/smaktal/core"

// UnknownCourse groups assignments that reference no course.
const UnknownCourse = "unknown"

// Course is a class taught by a teacher.
type Course struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Kelas        string `json:"kelas"`
	StudentCount int    `json:"studentCount"`
	TeacherID    string `json:"teacherId"`
}

type Assignment struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	CourseID  string         `json:"courseId"`
	TeacherID string         `json:"teacherId"`
	DueDate   core.Timestamp `json:"dueDate"`
}

type NewCourse struct {
	Title        string `json:"title" validate:"required,min=3"`
	Kelas        string `json:"kelas" validate:"omitempty,min=2"`
	StudentCount int    `json:"studentCount" validate:"min=0"`
}

type NewAssignment struct {
	Title    string         `json:"title" validate:"required,min=3"`
	CourseID string         `json:"courseId" validate:"required"`
	DueDate  core.Timestamp `json:"dueDate"`
}

// CountByCourse counts assignments per course ID, UnknownCourse standing in for a missing one.
func CountByCourse(assignments []Assignment) map[string]int {
	counts := make(map[string]int)
	for _, a := range assignments {
		cid := a.CourseID
		if cid == "" {
			cid = UnknownCourse
		}
		counts[cid]++
	}
	return counts
}
