package house

import "github.com/osisproject0-hub/smaktal/core"

// House is a student team competing for points. TotalPoints is kept on its own and is not
// derived from the points of its members.
type House struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
	EmblemURL   string `json:"emblemUrl,omitempty"`
}

// NewHouse contains information needed to create a new House.
type NewHouse struct {
	Name        string `json:"name" validate:"housename"`
	TotalPoints int    `json:"totalPoints" validate:"housepoints"`
	EmblemURL   string `json:"emblemUrl" validate:"omitempty,url"`
}

func (nh *NewHouse) Clean() {
	nh.Name = core.CleanString(nh.Name)
	nh.EmblemURL = core.CleanString(nh.EmblemURL)
}

// UpdateHouse defines the fields an admin edits on an existing House. All fields are written.
type UpdateHouse NewHouse

func (uh *UpdateHouse) Clean() {
	(*NewHouse)(uh).Clean()
}
