package announcement

import "github.com/osisproject0-hub/smaktal/core"

// DefaultAuthor signs announcements posted by an account without a display name.
const DefaultAuthor = "Admin"

type Announcement struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	AuthorName string         `json:"authorName"`
	CreatedAt  core.Timestamp `json:"createdAt"`
}

// NewAnnouncement contains information needed to post an Announcement.
type NewAnnouncement struct {
	Title   string `json:"title" validate:"required,min=5"`
	Content string `json:"content" validate:"required,min=10"`
}

func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
}

// UpdateAnnouncement edits title and content only; the author and creation time stay.
type UpdateAnnouncement NewAnnouncement

func (ua *UpdateAnnouncement) Clean() {
	(*NewAnnouncement)(ua).Clean()
}
