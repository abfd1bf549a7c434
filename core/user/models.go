package user

import (
	"github.com/volatiletech/null/v8"

	"github.com/osisproject0-hub/smaktal/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// defaults given to a profile on first sign-in
const (
	DefaultJurusan = "Teknik Komputer & Jaringan"
	DefaultKelas   = "XI TKJ 1"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the account document, keyed by the sign-in UID.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Role        string `json:"role"`
	Points      int    `json:"points"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// IsStaff reports whether u may grade students (award points, unlock skills).
func (u User) IsStaff() bool { return u.IsTeacher() || u.IsAdmin() }

// Profile holds the academic details of a user. Its ID always equals the owning User's ID.
type Profile struct {
	ID             string      `json:"id"`
	HouseID        null.String `json:"houseId"`
	Jurusan        string      `json:"jurusan"`
	Kelas          string      `json:"kelas"`
	Points         int         `json:"points"`
	UnlockedSkills []string    `json:"unlockedSkills"`
}

func (p Profile) HasUnlocked(skillID string) bool {
	for _, id := range p.UnlockedSkills {
		if id == skillID {
			return true
		}
	}
	return false
}

func newUser(p core.Principal) User {
	return User{
		ID:          p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Role:        RoleStudent,
	}
}

func newProfile(uid string) Profile {
	return Profile{
		ID:             uid,
		HouseID:        null.String{},
		Jurusan:        DefaultJurusan,
		Kelas:          DefaultKelas,
		UnlockedSkills: []string{},
	}
}

// ChangeRole is the payload of an admin role change.
type ChangeRole struct {
	Role string `json:"role" validate:"required,role"`
}

// AwardPoints adds Delta (possibly negative) to a student's points.
type AwardPoints struct {
	Delta int `json:"delta" validate:"required"`
}

// UpdateProfile defines what an admin may change on a profile. Empty fields are left untouched;
// an empty HouseID clears the house.
type UpdateProfile struct {
	HouseID *string `json:"houseId"`
	Jurusan string  `json:"jurusan" validate:"omitempty,min=3"`
	Kelas   string  `json:"kelas" validate:"omitempty,min=2"`
}

func (up *UpdateProfile) Clean() {
	up.Jurusan = core.CleanString(up.Jurusan)
	up.Kelas = core.CleanString(up.Kelas)
	if up.HouseID != nil {
		id := core.CleanString(*up.HouseID)
		up.HouseID = &id
	}
}
