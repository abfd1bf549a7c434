// Package testutil wires the app on an in-memory document store for tests.
package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/announcement"
	"github.com/osisproject0-hub/smaktal/core/course"
	"github.com/osisproject0-hub/smaktal/core/dashboard"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/tutor"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/core/wellbeing"
	emailsvc "github.com/osisproject0-hub/smaktal/services/email"
	identitysvc "github.com/osisproject0-hub/smaktal/services/identity"
	logsvc "github.com/osisproject0-hub/smaktal/services/logger"
	"github.com/osisproject0-hub/smaktal/storage/database/docrepos"
	inmemdb "github.com/osisproject0-hub/smaktal/storage/database/inmem"
)

// Env is the whole app backed by an in-memory store.
type Env struct {
	Conf       *core.Config
	Logger     core.Logger
	Store      *inmemdb.Store
	Validate   *validator.Validate
	Translator ut.Translator
	Mail       *emailsvc.ConsoleServiceMock
	Verifier   *identitysvc.FakeVerifier

	UserRepo      user.Repository
	HouseRepo     house.Repository
	ResourceRepo  resource.Repository
	TutorRepo     tutor.Repository
	SkillTreeRepo skilltree.Repository
	CourseRepo    course.Repository
	WellbeingRepo wellbeing.Repository

	UserSvc         *user.Service
	HouseSvc        *house.Service
	AnnouncementSvc *announcement.Service
	ResourceSvc     *resource.Service
	TutorSvc        *tutor.Service
	SkillTreeSvc    *skilltree.Service
	CourseSvc       *course.Service
	WellbeingSvc    *wellbeing.Service
	DashboardSvc    *dashboard.Service
}

func NewConfig() *core.Config {
	conf := &core.Config{
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "Smart Digital Campus",
		SecretKey:        "test-secret-key",
		FrontendBaseURL:  "http://localhost:8000",
		DefaultFromEmail: mail.Address{Name: "Smart Digital Campus", Address: "noreply@test.id"},
		CounselorEmail:   mail.Address{Name: "Konselor", Address: "konselor@test.id"},
		SkillTreeMajor:   "tkj",
		LeaderboardSize:  5,
	}
	conf.Server.Address = ":0"
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 24 * time.Hour
	conf.Redis.Disabled = true
	return conf
}

func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(zap.NewNop().Sugar(), conf)
}

// NewValidator returns a validator with every custom rule of the app registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	house.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)
	wellbeing.InitValidators(validate, translator)
	return validate, translator
}

// NewEnv builds the app with the static tutor and no leaderboard cache.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	conf := NewConfig()
	logger := NewLogger(conf)
	core.ParseEmailTemplates(logger)
	validate, translator := NewValidator()
	store := inmemdb.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	env := &Env{
		Conf:       conf,
		Logger:     logger,
		Store:      store,
		Validate:   validate,
		Translator: translator,
		Mail:       emailsvc.NewConsoleServiceMock(logger, conf),
		Verifier:   identitysvc.NewFakeVerifier(),

		UserRepo:      docrepos.NewUserRepository(store),
		HouseRepo:     docrepos.NewHouseRepository(store),
		ResourceRepo:  docrepos.NewResourceRepository(store),
		TutorRepo:     docrepos.NewTutorRepository(store),
		SkillTreeRepo: docrepos.NewSkillTreeRepository(store),
		CourseRepo:    docrepos.NewCourseRepository(store),
		WellbeingRepo: docrepos.NewWellbeingRepository(store),
	}

	env.UserSvc = user.NewService(env.UserRepo, env.HouseRepo, nil, validate, logger, conf)
	env.HouseSvc = house.NewService(env.HouseRepo, validate)
	env.AnnouncementSvc = announcement.NewService(docrepos.NewAnnouncementRepository(store), validate)
	env.ResourceSvc = resource.NewService(env.ResourceRepo, validate)
	env.TutorSvc = tutor.NewService(env.TutorRepo, tutor.StaticRecommender{}, validate, logger, conf)
	env.SkillTreeSvc = skilltree.NewService(env.SkillTreeRepo, env.UserRepo, conf)
	env.CourseSvc = course.NewService(env.CourseRepo, validate)
	env.WellbeingSvc = wellbeing.NewService(env.WellbeingRepo, env.Mail, validate, conf)
	env.DashboardSvc = dashboard.NewService(
		env.UserSvc,
		env.HouseSvc,
		env.AnnouncementSvc,
		env.ResourceSvc,
		env.CourseSvc,
		env.SkillTreeSvc,
	)
	return env
}

// CreateUser signs in a principal for uid and gives it role. A zero role keeps the default (student).
func CreateUser(t *testing.T, env *Env, uid, name, role string) user.User {
	t.Helper()

	ctx := context.Background()
	usr, _, err := env.UserSvc.EnsureUser(ctx, core.Principal{
		UID:         uid,
		Email:       uid + "@test.id",
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if role != "" && role != usr.Role {
		if err = env.UserSvc.SetRole(ctx, uid, role); err != nil {
			t.Fatalf("CreateUser() failed to set role: %v", err)
		}
		usr.Role = role
	}
	return usr
}

// SetPoints writes points on both the user and profile documents.
func SetPoints(t *testing.T, env *Env, uid string, points int) {
	t.Helper()

	ctx := context.Background()
	fields := map[string]interface{}{user.FieldPoints: points}
	if err := env.UserRepo.UpdateUser(ctx, uid, fields); err != nil {
		t.Fatalf("SetPoints() failed: %v", err)
	}
	if err := env.UserRepo.UpdateProfile(ctx, uid, fields); err != nil {
		t.Fatalf("SetPoints() failed: %v", err)
	}
}

// SeedSkillTree stores a small two-tier tree under the default major.
func SeedSkillTree(t *testing.T, env *Env) skilltree.Tree {
	t.Helper()

	tree := skilltree.Tree{
		ID:   env.Conf.SkillTreeMajor,
		Name: "Teknik Komputer & Jaringan",
		Tiers: []skilltree.Tier{
			{ID: "dasar", Name: "Dasar", Order: 1, Skills: []skilltree.Skill{
				{ID: "sk01", Name: "Dasar Jaringan"},
				{ID: "sk02", Name: "Perakitan Komputer"},
			}},
			{ID: "menengah", Name: "Menengah", Order: 2, Skills: []skilltree.Skill{
				{ID: "sk03", Name: "Konfigurasi Router"},
			}},
		},
	}
	if err := env.SkillTreeSvc.Seed(context.Background(), tree); err != nil {
		t.Fatalf("SeedSkillTree() failed: %v", err)
	}
	return tree
}
