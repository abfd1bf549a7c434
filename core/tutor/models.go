package tutor

import (
	"context"

	"github.com/osisproject0-hub/smaktal/core"
)

// SimulatedResults stands in for a real diagnostic quiz until one exists.
var SimulatedResults = map[string]float64{
	"q1_dasar":       100,
	"q2_konfigurasi": 40,
	"q3_keamanan":    20,
}

type LearningTopic struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Order int    `json:"order"`
}

// QuizResult holds the diagnostic scores of one student for one topic.
type QuizResult struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	TopicID   string             `json:"topicId"`
	Results   map[string]float64 `json:"results"`
	CreatedAt core.Timestamp     `json:"createdAt"`
}

// QuizResultID is the document ID of the quiz result of studentID for topicID.
func QuizResultID(studentID, topicID string) string {
	return studentID + "_" + topicID
}

// Input is what the recommender is asked about.
type Input struct {
	QuizResults   map[string]float64 `json:"quizResults" validate:"required,min=1"`
	LearningTopic string             `json:"learningTopic" validate:"required,notblank"`
	StudentID     string             `json:"studentId" validate:"required"`
}

// Output is the recommender's answer.
type Output struct {
	Recommendations []string `json:"recommendations"`
	Assistance      string   `json:"assistance"`
}

// Recommender produces learning recommendations from quiz results.
type Recommender interface {
	Recommend(ctx context.Context, in Input) (Output, error)
}

// LearningPlan is the result of a tutor request.
type LearningPlan struct {
	Topic      LearningTopic `json:"topic"`
	QuizResult QuizResult    `json:"quizResult"`
	Output
}

// LearningPlanRequest is the payload of a tutor request.
type LearningPlanRequest struct {
	TopicID string `json:"topicId"`
}
