package wellbeing

import "github.com/osisproject0-hub/smaktal/core"

// Moods
const (
	MoodHappy = "Senang"
	MoodGood  = "Baik"
	MoodOkay  = "Biasa"
	MoodSad   = "Sedih"
	MoodAngry = "Marah"
)

var Moods = []string{MoodHappy, MoodGood, MoodOkay, MoodSad, MoodAngry}

type CheckIn struct {
	ID        string         `json:"id"`
	Mood      string         `json:"mood"`
	Note      string         `json:"note,omitempty"`
	CreatedAt core.Timestamp `json:"createdAt"`
}

type NewCheckIn struct {
	Mood string `json:"mood" validate:"required,mood"`
	Note string `json:"note" validate:"max=500"`
}

// CounselingRequest asks the school counselor for an appointment.
type CounselingRequest struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	DisplayName string         `json:"displayName"`
	Email       string         `json:"email"`
	Reason      string         `json:"reason"`
	CreatedAt   core.Timestamp `json:"createdAt"`
}

type NewCounselingRequest struct {
	Reason string `json:"reason" validate:"appointmentreason,max=2000"`
}
