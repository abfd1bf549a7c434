package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/announcement"
)

type announcementRepository struct {
	announcements collection[announcement.Announcement]
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(store core.DocStore) announcement.Repository {
	return &announcementRepository{
		announcements: newCollection[announcement.Announcement](store, announcementsPath, announcement.ErrNotFound),
	}
}

func (repo *announcementRepository) QueryAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	return repo.announcements.query(ctx, nil, orderBy("createdAt", false), 0)
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	return repo.announcements.get(ctx, id)
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	id, err := repo.announcements.create(ctx, a.ID, a)
	if err != nil {
		return announcement.Announcement{}, err
	}
	a.ID = id
	return a, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, id string, fields map[string]interface{}) error {
	return repo.announcements.update(ctx, id, fields)
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	return repo.announcements.delete(ctx, id)
}
