package announcement

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

var ErrNotFound = core.NewNotFoundError("announcement")

type (
	Repository interface {
		// QueryAnnouncements returns all announcements, newest first.
		QueryAnnouncements(ctx context.Context) ([]Announcement, error)
		GetAnnouncement(ctx context.Context, id string) (Announcement, error)
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, id string, fields map[string]interface{}) error
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

// Create posts na signed by authorName, or DefaultAuthor when it is blank.
func (svc *Service) Create(ctx context.Context, authorName string, na NewAnnouncement) (Announcement, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Announcement{}, err
	}
	authorName = core.CleanString(authorName)
	if authorName == "" {
		authorName = DefaultAuthor
	}
	a, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		Title:      na.Title,
		Content:    na.Content,
		AuthorName: authorName,
		CreatedAt:  core.Now(),
	})
	return a, errors.Wrap(err, "creating announcement")
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAnnouncement) (Announcement, error) {
	ua.Clean()
	if err := svc.validate.Struct(ua); err != nil {
		return Announcement{}, err
	}
	a, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if err = svc.repo.UpdateAnnouncement(ctx, id, map[string]interface{}{
		"title":   ua.Title,
		"content": ua.Content,
	}); err != nil {
		return Announcement{}, errors.Wrap(err, "updating announcement")
	}
	a.Title = ua.Title
	a.Content = ua.Content
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetAnnouncement(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAnnouncement(ctx, id)
}
