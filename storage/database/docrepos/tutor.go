package docrepos

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/tutor"
)

type tutorRepository struct {
	topics      collection[tutor.LearningTopic]
	quizResults collection[tutor.QuizResult]
}

var _ tutor.Repository = (*tutorRepository)(nil)

func NewTutorRepository(store core.DocStore) tutor.Repository {
	quizResults := newCollection[tutor.QuizResult](store, quizResultsPath, tutor.ErrQuizResultNotFound)
	quizResults.exists = tutor.ErrQuizResultExists
	return &tutorRepository{
		topics:      newCollection[tutor.LearningTopic](store, learningTopicsPath, tutor.ErrTopicNotFound),
		quizResults: quizResults,
	}
}

func (repo *tutorRepository) QueryTopics(ctx context.Context) ([]tutor.LearningTopic, error) {
	return repo.topics.query(ctx, nil, orderBy("order", true), 0)
}

func (repo *tutorRepository) GetTopic(ctx context.Context, id string) (tutor.LearningTopic, error) {
	return repo.topics.get(ctx, id)
}

func (repo *tutorRepository) SaveTopic(ctx context.Context, t tutor.LearningTopic) error {
	return repo.topics.set(ctx, t.ID, t)
}

func (repo *tutorRepository) GetQuizResult(ctx context.Context, id string) (tutor.QuizResult, error) {
	return repo.quizResults.get(ctx, id)
}

func (repo *tutorRepository) CreateQuizResult(ctx context.Context, qr tutor.QuizResult) error {
	_, err := repo.quizResults.create(ctx, qr.ID, qr)
	return err
}
