package wellbeing

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

// AppointmentConfirmation is shown once a counseling request is recorded.
const AppointmentConfirmation = "Konselor akan segera menghubungi Anda"

type (
	Repository interface {
		CreateCheckIn(ctx context.Context, uid string, c CheckIn) (CheckIn, error)
		// QueryCheckIns returns the check-ins of uid, newest first.
		QueryCheckIns(ctx context.Context, uid string) ([]CheckIn, error)
		CreateCounselingRequest(ctx context.Context, r CounselingRequest) (CounselingRequest, error)
	}

	Service struct {
		repo      Repository
		mailSvc   core.EmailService
		validate  *validator.Validate
		counselor mail.Address
	}
)

func NewService(repo Repository, mailSvc core.EmailService, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, validate: validate, counselor: conf.CounselorEmail}
}

// CheckIn records today's mood of usr.
func (svc *Service) CheckIn(ctx context.Context, usr user.User, nc NewCheckIn) (CheckIn, string, error) {
	nc.Mood = core.CleanString(nc.Mood)
	nc.Note = core.CleanString(nc.Note)
	if err := svc.validate.Struct(nc); err != nil {
		return CheckIn{}, "", err
	}
	c, err := svc.repo.CreateCheckIn(ctx, usr.ID, CheckIn{
		Mood:      nc.Mood,
		Note:      nc.Note,
		CreatedAt: core.Now(),
	})
	if err != nil {
		return CheckIn{}, "", errors.Wrap(err, "creating check-in")
	}
	msg := fmt.Sprintf("Terima kasih telah berbagi perasaan Anda hari ini. Mood Anda: %s.", c.Mood)
	return c, msg, nil
}

func (svc *Service) CheckIns(ctx context.Context, uid string) ([]CheckIn, error) {
	return svc.repo.QueryCheckIns(ctx, uid)
}

// RequestAppointment stores a counseling request from usr and notifies the counselor by e-mail.
func (svc *Service) RequestAppointment(ctx context.Context, usr user.User, nr NewCounselingRequest) (CounselingRequest, error) {
	nr.Reason = core.CleanString(nr.Reason)
	if err := svc.validate.Struct(nr); err != nil {
		return CounselingRequest{}, err
	}
	r, err := svc.repo.CreateCounselingRequest(ctx, CounselingRequest{
		UserID:      usr.ID,
		DisplayName: usr.DisplayName,
		Email:       usr.Email,
		Reason:      nr.Reason,
		CreatedAt:   core.Now(),
	})
	if err != nil {
		return CounselingRequest{}, errors.Wrap(err, "creating counseling request")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.counselor},
		Subject:      "Permintaan konseling dari " + r.DisplayName,
		TemplateName: "counseling_request",
		TemplateData: r,
	})
	return r, nil
}
