package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/house"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("user")
	ErrProfileNotFound = core.NewNotFoundError("profile")
	ErrExists          = errors.New("user already exists")
	ErrSelfRoleChange  = core.NewPermissionError("you cannot change your own role")
	ErrNegativePoints  = errors.New("points cannot go below zero")
	ErrUnknownHouse    = errors.New("unknown house")
)

const DefaultLeaderboardSize = 5

// profile & user fields written by partial updates
const (
	FieldRole           = "role"
	FieldPoints         = "points"
	FieldHouseID        = "houseId"
	FieldJurusan        = "jurusan"
	FieldKelas          = "kelas"
	FieldUnlockedSkills = "unlockedSkills"
)

type (
	Repository interface {
		GetUser(ctx context.Context, id string) (User, error)
		// CreateUser fails with ErrExists when a user with the same ID is already stored.
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryUsers(ctx context.Context) ([]User, error)
		// TopUsersByPoints returns at most limit users, highest points first.
		TopUsersByPoints(ctx context.Context, limit int) ([]User, error)
		UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error

		GetProfile(ctx context.Context, uid string) (Profile, error)
		// CreateProfile does nothing if the profile already exists.
		CreateProfile(ctx context.Context, prof Profile) error
		UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) error
	}

	// Leaderboard caches the ranking of users by points.
	// A miss is reported as ok=false, in which case the caller reads the repository and calls Rebuild.
	Leaderboard interface {
		Top(ctx context.Context, n int) (users []User, ok bool, err error)
		Upsert(ctx context.Context, usr User) error
		Rebuild(ctx context.Context, users []User) error
	}

	Service struct {
		repo     Repository
		houses   house.Repository
		board    Leaderboard
		validate *validator.Validate
		logger   core.Logger
		topN     int

		rebuilds singleflight.Group
		mu       sync.Mutex
		// users written while a rebuild is in flight, nil otherwise
		pending map[string]User
	}
)

// NewService returns the user service. board may be nil, in which case rankings are always read from repo.
func NewService(repo Repository, houses house.Repository, board Leaderboard, validate *validator.Validate, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		houses:   houses,
		board:    board,
		validate: validate,
		logger:   logger,
		topN:     LeaderboardSize(conf),
	}
}

// LeaderboardSize is the configured number of ranked users, DefaultLeaderboardSize when unset.
func LeaderboardSize(conf *core.Config) int {
	if conf.LeaderboardSize <= 0 {
		return DefaultLeaderboardSize
	}
	return conf.LeaderboardSize
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetProfile(ctx context.Context, uid string) (Profile, error) {
	return svc.repo.GetProfile(ctx, uid)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx)
}

// EnsureUser creates the user and profile documents of a first-time principal. It is idempotent:
// existing documents are left untouched. created reports whether the user document was written by this call.
func (svc *Service) EnsureUser(ctx context.Context, p core.Principal) (usr User, created bool, err error) {
	if p.IsZero() {
		return User{}, false, core.ErrPermissionDenied
	}

	usr, err = svc.repo.GetUser(ctx, p.UID)
	switch {
	case err == nil:
	case pkgerrors.Cause(err) == ErrNotFound:
		usr, err = svc.repo.CreateUser(ctx, newUser(p))
		if err == nil {
			created = true
			svc.refreshLeaderboard(ctx, usr)
		} else if pkgerrors.Cause(err) == ErrExists { // lost a race with a concurrent sign-in
			usr, err = svc.repo.GetUser(ctx, p.UID)
		}
		if err != nil {
			return User{}, false, pkgerrors.Wrap(err, "creating user")
		}
	default:
		return User{}, false, pkgerrors.Wrap(err, "getting user")
	}

	if err = svc.repo.CreateProfile(ctx, newProfile(p.UID)); err != nil {
		return User{}, false, pkgerrors.Wrap(err, "creating profile")
	}
	return usr, created, nil
}

// Leaderboard returns the top users by points, at most the configured leaderboard size.
func (svc *Service) Leaderboard(ctx context.Context) ([]User, error) {
	if svc.board != nil {
		users, ok, err := svc.board.Top(ctx, svc.topN)
		if err != nil {
			svc.logger.Warn("reading leaderboard cache", err)
		} else if ok {
			return users, nil
		}
	}

	users, err := svc.repo.TopUsersByPoints(ctx, svc.topN)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying top users")
	}
	if svc.board != nil {
		svc.rebuilds.DoChan("leaderboard", svc.rebuildLeaderboard)
	}
	return users, nil
}

// Rank returns the 1-based position of uid among the top users. ok is false when uid is not among them.
func Rank(top []User, uid string) (rank int, ok bool) {
	for i, u := range top {
		if u.ID == uid {
			return i + 1, true
		}
	}
	return 0, false
}

// ChangeRole sets the role of the target user. Admins cannot change their own role.
func (svc *Service) ChangeRole(ctx context.Context, actor User, targetID string, cr ChangeRole) (User, error) {
	if !actor.IsAdmin() {
		return User{}, core.ErrPermissionDenied
	}
	if actor.ID == targetID {
		return User{}, ErrSelfRoleChange
	}
	cr.Role = core.CleanString(cr.Role, true /* lower */)
	if err := svc.validate.Struct(cr); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUser(ctx, targetID)
	if err != nil {
		return User{}, err
	}
	if err = svc.repo.UpdateUser(ctx, targetID, map[string]interface{}{FieldRole: cr.Role}); err != nil {
		return User{}, pkgerrors.Wrap(err, "updating role")
	}
	usr.Role = cr.Role
	svc.refreshLeaderboard(ctx, usr)
	return usr, nil
}

// AwardPoints adds ap.Delta to both the user's and the profile's points. Only staff may award points.
func (svc *Service) AwardPoints(ctx context.Context, actor User, targetID string, ap AwardPoints) (User, error) {
	if !actor.IsStaff() {
		return User{}, core.ErrPermissionDenied
	}
	if err := svc.validate.Struct(ap); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUser(ctx, targetID)
	if err != nil {
		return User{}, err
	}
	prof, err := svc.repo.GetProfile(ctx, targetID)
	if err != nil {
		return User{}, err
	}

	newPoints := usr.Points + ap.Delta
	if newPoints < 0 {
		return User{}, core.NewValidationError(ErrNegativePoints, core.FieldError{Field: "delta", Error: ErrNegativePoints.Error()})
	}
	profPoints := prof.Points + ap.Delta
	if profPoints < 0 {
		profPoints = 0
	}

	if err = svc.repo.UpdateUser(ctx, targetID, map[string]interface{}{FieldPoints: newPoints}); err != nil {
		return User{}, pkgerrors.Wrap(err, "updating user points")
	}
	if err = svc.repo.UpdateProfile(ctx, targetID, map[string]interface{}{FieldPoints: profPoints}); err != nil {
		return User{}, pkgerrors.Wrap(err, "updating profile points")
	}

	usr.Points = newPoints
	svc.refreshLeaderboard(ctx, usr)
	svc.logger.Info(fmt.Sprintf("%d points awarded to %s", ap.Delta, usr.ID), actor)
	return usr, nil
}

// UpdateProfile lets an admin assign a house, major or class to a user.
func (svc *Service) UpdateProfile(ctx context.Context, actor User, targetID string, up UpdateProfile) (Profile, error) {
	if !actor.IsAdmin() {
		return Profile{}, core.ErrPermissionDenied
	}
	up.Clean()
	if err := svc.validate.Struct(up); err != nil {
		return Profile{}, err
	}

	prof, err := svc.repo.GetProfile(ctx, targetID)
	if err != nil {
		return Profile{}, err
	}

	fields := make(map[string]interface{})
	if up.HouseID != nil {
		if *up.HouseID == "" {
			prof.HouseID.Valid = false
			prof.HouseID.String = ""
			fields[FieldHouseID] = nil
		} else {
			if _, err = svc.houses.GetHouse(ctx, *up.HouseID); err != nil {
				if pkgerrors.Cause(err) == house.ErrNotFound {
					return Profile{}, core.NewValidationError(ErrUnknownHouse, core.FieldError{Field: "houseId", Error: ErrUnknownHouse.Error()})
				}
				return Profile{}, pkgerrors.Wrap(err, "getting house")
			}
			prof.HouseID.SetValid(*up.HouseID)
			fields[FieldHouseID] = *up.HouseID
		}
	}
	if up.Jurusan != "" {
		prof.Jurusan = up.Jurusan
		fields[FieldJurusan] = up.Jurusan
	}
	if up.Kelas != "" {
		prof.Kelas = up.Kelas
		fields[FieldKelas] = up.Kelas
	}
	if len(fields) == 0 {
		return prof, nil
	}

	if err = svc.repo.UpdateProfile(ctx, targetID, fields); err != nil {
		return Profile{}, pkgerrors.Wrap(err, "updating profile")
	}
	return prof, nil
}

// SetRole is the operator bootstrap used by the admin CLI: it bypasses the actor checks.
func (svc *Service) SetRole(ctx context.Context, targetID, role string) error {
	if !IsValidRole(role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: roleText})
	}
	if _, err := svc.repo.GetUser(ctx, targetID); err != nil {
		return err
	}
	return svc.repo.UpdateUser(ctx, targetID, map[string]interface{}{FieldRole: role})
}

func (svc *Service) refreshLeaderboard(ctx context.Context, usr User) {
	if svc.board == nil {
		return
	}
	svc.mu.Lock()
	if svc.pending != nil {
		svc.pending[usr.ID] = usr
	}
	svc.mu.Unlock()

	if err := svc.board.Upsert(ctx, usr); err != nil {
		svc.logger.Warn("updating leaderboard cache", err)
	}
}

// rebuildLeaderboard reloads the cache from the repository, then replays the users written meanwhile
// since the reload may have read them before the write.
func (svc *Service) rebuildLeaderboard() (interface{}, error) {
	svc.mu.Lock()
	svc.pending = make(map[string]User)
	svc.mu.Unlock()

	ctx := context.Background()
	users, err := svc.repo.QueryUsers(ctx)
	if err != nil {
		err = pkgerrors.Wrap(err, "loading users")
	} else {
		err = svc.board.Rebuild(ctx, users)
	}

	svc.mu.Lock()
	pending := svc.pending
	svc.pending = nil
	svc.mu.Unlock()

	if err != nil {
		svc.logger.Warn("rebuilding leaderboard cache", err)
		return nil, err
	}
	for _, usr := range pending {
		if err = svc.board.Upsert(ctx, usr); err != nil {
			svc.logger.Warn("updating leaderboard cache", err)
		}
	}
	return nil, nil
}
