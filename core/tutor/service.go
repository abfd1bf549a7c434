package tutor

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/osisproject0-hub/smaktal/core"
)

var (
	ErrTopicNotFound      = core.NewNotFoundError("learning topic")
	ErrQuizResultNotFound = core.NewNotFoundError("quiz result")
	ErrQuizResultExists   = errors.New("quiz result already exists")

	ErrInvalidTopic       = errors.New("Topik tidak valid. Silakan pilih dari daftar.")
	ErrUnknownTopic       = errors.New("Topik pembelajaran tidak ditemukan.")
	ErrTutorUnavailable   = errors.New("Gagal menghubungi AI Tutor. Silakan coba lagi nanti.")
	errMalformedModelData = errors.New("recommender returned malformed output")
)

type (
	Repository interface {
		// QueryTopics returns the learning topics ordered by Order.
		QueryTopics(ctx context.Context) ([]LearningTopic, error)
		GetTopic(ctx context.Context, id string) (LearningTopic, error)
		SaveTopic(ctx context.Context, t LearningTopic) error
		GetQuizResult(ctx context.Context, id string) (QuizResult, error)
		// CreateQuizResult fails with ErrQuizResultExists when the ID is taken.
		CreateQuizResult(ctx context.Context, qr QuizResult) error
	}

	Service struct {
		repo     Repository
		rec      Recommender
		validate *validator.Validate
		logger   core.Logger
		timeout  time.Duration
	}
)

func NewService(repo Repository, rec Recommender, validate *validator.Validate, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		rec:      rec,
		validate: validate,
		logger:   logger,
		timeout:  conf.GenAI.Timeout,
	}
}

func (svc *Service) Topics(ctx context.Context) ([]LearningTopic, error) {
	return svc.repo.QueryTopics(ctx)
}

// GetOrCreateQuizResult returns the stored quiz result of studentID for topicID, creating it with
// SimulatedResults when absent. Repeated calls return the same stored result.
func (svc *Service) GetOrCreateQuizResult(ctx context.Context, studentID, topicID string) (qr QuizResult, created bool, err error) {
	id := QuizResultID(studentID, topicID)

	qr, err = svc.repo.GetQuizResult(ctx, id)
	if err == nil {
		return qr, false, nil
	}
	if pkgerrors.Cause(err) != ErrQuizResultNotFound {
		return QuizResult{}, false, pkgerrors.Wrap(err, "getting quiz result")
	}
	return svc.createQuizResult(ctx, studentID, topicID)
}

func (svc *Service) createQuizResult(ctx context.Context, studentID, topicID string) (QuizResult, bool, error) {
	results := make(map[string]float64, len(SimulatedResults))
	for k, v := range SimulatedResults {
		results[k] = v
	}
	qr := QuizResult{
		ID:        QuizResultID(studentID, topicID),
		UserID:    studentID,
		TopicID:   topicID,
		Results:   results,
		CreatedAt: core.Now(),
	}

	err := svc.repo.CreateQuizResult(ctx, qr)
	switch {
	case err == nil:
		return qr, true, nil
	case pkgerrors.Cause(err) == ErrQuizResultExists: // created concurrently, keep the stored one
		stored, err := svc.repo.GetQuizResult(ctx, qr.ID)
		return stored, false, pkgerrors.Wrap(err, "getting quiz result")
	default:
		return QuizResult{}, false, pkgerrors.Wrap(err, "creating quiz result")
	}
}

// RequestLearningPlan asks the recommender for a plan for studentID on topicID.
// An empty or unknown topic is a validation error and nothing is written. Recommender failures are
// logged and reported as ErrTutorUnavailable.
func (svc *Service) RequestLearningPlan(ctx context.Context, studentID, topicID string) (LearningPlan, error) {
	topicID = core.CleanString(topicID)
	if topicID == "" {
		return LearningPlan{}, core.NewValidationError(
			ErrInvalidTopic,
			core.FieldError{Field: "topicId", Error: ErrInvalidTopic.Error()},
		)
	}
	if studentID == "" {
		return LearningPlan{}, core.ErrPermissionDenied
	}

	var (
		topic    LearningTopic
		qr       QuizResult
		qrExists bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		topic, err = svc.repo.GetTopic(gctx, topicID)
		if pkgerrors.Cause(err) == ErrTopicNotFound {
			return core.NewValidationError(ErrUnknownTopic, core.FieldError{Field: "topicId", Error: ErrUnknownTopic.Error()})
		}
		return pkgerrors.Wrap(err, "getting learning topic")
	})
	g.Go(func() error {
		var err error
		qr, err = svc.repo.GetQuizResult(gctx, QuizResultID(studentID, topicID))
		switch {
		case err == nil:
			qrExists = true
			return nil
		case pkgerrors.Cause(err) == ErrQuizResultNotFound:
			return nil
		default:
			return pkgerrors.Wrap(err, "getting quiz result")
		}
	})
	if err := g.Wait(); err != nil {
		return LearningPlan{}, err
	}

	if !qrExists {
		var err error
		if qr, _, err = svc.createQuizResult(ctx, studentID, topicID); err != nil {
			return LearningPlan{}, err
		}
	}

	in := Input{
		QuizResults:   qr.Results,
		LearningTopic: topic.Label,
		StudentID:     studentID,
	}
	if err := svc.validate.Struct(in); err != nil {
		return LearningPlan{}, err
	}

	out, err := svc.recommend(ctx, in)
	if err != nil {
		svc.logger.Error("requesting learning plan", pkgerrors.Wrap(err, "recommending"), map[string]interface{}{
			"studentId": studentID,
			"topicId":   topicID,
		})
		return LearningPlan{}, ErrTutorUnavailable
	}
	return LearningPlan{Topic: topic, QuizResult: qr, Output: out}, nil
}

func (svc *Service) recommend(ctx context.Context, in Input) (Output, error) {
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}
	out, err := svc.rec.Recommend(ctx, in)
	if err != nil {
		return Output{}, err
	}
	if out.Recommendations == nil {
		return Output{}, errMalformedModelData
	}
	return out, nil
}
