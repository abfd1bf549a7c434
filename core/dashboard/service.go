package dashboard

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/announcement"
	"github.com/osisproject0-hub/smaktal/core/course"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type (
	StudentOverview struct {
		Profile     user.Profile  `json:"profile"`
		House       *house.House  `json:"house"`
		Houses      []house.House `json:"houses"`
		Leaderboard []user.User   `json:"leaderboard"`

		// UserRank is nil when the user is not on the leaderboard.
		UserRank           *int               `json:"userRank"`
		MajorProgress      int                `json:"majorProgress"`
		CertificatesEarned int                `json:"certificatesEarned"`
		SkillTree          skilltree.Progress `json:"skillTree"`
	}

	TeacherOverview struct {
		Courses          []course.Course `json:"courses"`
		AssignmentCounts map[string]int  `json:"assignmentCounts"`
	}

	AdminOverview struct {
		Users         int `json:"users"`
		Houses        int `json:"houses"`
		Announcements int `json:"announcements"`
		Resources     int `json:"resources"`
	}

	Overview struct {
		View    View             `json:"view"`
		User    *user.User       `json:"user"`
		Student *StudentOverview `json:"student,omitempty"`
		Teacher *TeacherOverview `json:"teacher,omitempty"`
		Admin   *AdminOverview   `json:"admin,omitempty"`
	}

	Service struct {
		users         *user.Service
		houses        *house.Service
		announcements *announcement.Service
		resources     *resource.Service
		courses       *course.Service
		skills        *skilltree.Service
	}
)

func NewService(
	users *user.Service,
	houses *house.Service,
	announcements *announcement.Service,
	resources *resource.Service,
	courses *course.Service,
	skills *skilltree.Service,
) *Service {
	return &Service{
		users:         users,
		houses:        houses,
		announcements: announcements,
		resources:     resources,
		courses:       courses,
		skills:        skills,
	}
}

// Overview loads what the main dashboard shows to p.
func (svc *Service) Overview(ctx context.Context, p *core.Principal) (Overview, error) {
	if p.IsZero() {
		return Overview{View: ViewLoading}, nil
	}

	usr, err := svc.users.GetByID(ctx, p.UID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Overview{View: ViewLoading}, nil
		}
		return Overview{}, errors.Wrap(err, "getting user")
	}

	ov := Overview{View: SelectView(p, &usr, PageDashboard), User: &usr}
	switch ov.View {
	case ViewStudent:
		ov.Student, err = svc.student(ctx, usr)
	case ViewTeacher:
		ov.Teacher, err = svc.teacher(ctx, usr)
	case ViewAdmin:
		ov.Admin, err = svc.admin(ctx)
	}
	if err != nil {
		return Overview{}, err
	}
	return ov, nil
}

func (svc *Service) student(ctx context.Context, usr user.User) (*StudentOverview, error) {
	var (
		ov      StudentOverview
		g, gctx = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		prof, err := svc.users.GetProfile(gctx, usr.ID)
		if err != nil {
			return errors.Wrap(err, "getting profile")
		}
		progress, err := svc.skills.Progress(gctx, prof)
		if err != nil && !core.IsNotFound(err) {
			return errors.Wrap(err, "computing skill progress")
		}
		ov.Profile = prof
		ov.SkillTree = progress
		ov.MajorProgress = progress.MajorProgress
		ov.CertificatesEarned = progress.CertificatesEarned
		return nil
	})
	g.Go(func() error {
		houses, err := svc.houses.Query(gctx)
		ov.Houses = houses
		return errors.Wrap(err, "querying houses")
	})
	g.Go(func() error {
		top, err := svc.users.Leaderboard(gctx)
		ov.Leaderboard = top
		return errors.Wrap(err, "querying leaderboard")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rank, ok := user.Rank(ov.Leaderboard, usr.ID); ok {
		ov.UserRank = &rank
	}
	if ov.Profile.HouseID.Valid {
		for i := range ov.Houses {
			if ov.Houses[i].ID == ov.Profile.HouseID.String {
				h := ov.Houses[i]
				ov.House = &h
				break
			}
		}
	}
	return &ov, nil
}

func (svc *Service) teacher(ctx context.Context, usr user.User) (*TeacherOverview, error) {
	var (
		ov      TeacherOverview
		g, gctx = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		courses, err := svc.courses.QueryByTeacher(gctx, usr.ID)
		ov.Courses = courses
		return errors.Wrap(err, "querying courses")
	})
	g.Go(func() error {
		counts, err := svc.courses.AssignmentCounts(gctx, usr.ID)
		ov.AssignmentCounts = counts
		return errors.Wrap(err, "counting assignments")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (svc *Service) admin(ctx context.Context) (*AdminOverview, error) {
	var (
		ov      AdminOverview
		g, gctx = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		users, err := svc.users.QueryAll(gctx)
		ov.Users = len(users)
		return errors.Wrap(err, "querying users")
	})
	g.Go(func() error {
		houses, err := svc.houses.Query(gctx)
		ov.Houses = len(houses)
		return errors.Wrap(err, "querying houses")
	})
	g.Go(func() error {
		anns, err := svc.announcements.Query(gctx)
		ov.Announcements = len(anns)
		return errors.Wrap(err, "querying announcements")
	})
	g.Go(func() error {
		res, err := svc.resources.Query(gctx)
		ov.Resources = len(res)
		return errors.Wrap(err, "querying resources")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
