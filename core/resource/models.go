package resource

import "github.com/osisproject0-hub/smaktal/core"

// Resource types
const (
	TypeVideo   = "Video"
	TypeArticle = "Artikel"
	TypePodcast = "Podcast"
)

var Types = []string{TypeVideo, TypeArticle, TypePodcast}

// Resource is a well-being learning material. ImageID references a placeholder image.
type Resource struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Source  string `json:"source"`
	ImageID string `json:"imageId"`
}

type NewResource struct {
	Title   string `json:"title" validate:"required,min=5"`
	Type    string `json:"type" validate:"required,resourcetype"`
	Source  string `json:"source" validate:"required,min=3"`
	ImageID string `json:"imageId" validate:"required,min=1"`
}

func (nr *NewResource) Clean() {
	nr.Title = core.CleanString(nr.Title)
	nr.Type = core.CleanString(nr.Type)
	nr.Source = core.CleanString(nr.Source)
	nr.ImageID = core.CleanString(nr.ImageID)
}

type UpdateResource NewResource

func (ur *UpdateResource) Clean() {
	(*NewResource)(ur).Clean()
}
