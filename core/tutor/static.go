package tutor

import (
	"context"
	"fmt"
	"sort"
)

// weakScore is the score under which a quiz section is considered a struggle.
const weakScore = 60

// StaticRecommender answers without calling a model. It is used in development and tests.
type StaticRecommender struct{}

var _ Recommender = StaticRecommender{}

func (StaticRecommender) Recommend(_ context.Context, in Input) (Output, error) {
	weak := make([]string, 0)
	for k, v := range in.QuizResults {
		if v < weakScore {
			weak = append(weak, k)
		}
	}
	sort.Strings(weak)

	out := Output{
		Recommendations: []string{
			fmt.Sprintf("Video: Pengantar %s", in.LearningTopic),
			fmt.Sprintf("Artikel: Konsep dasar %s", in.LearningTopic),
			fmt.Sprintf("Latihan: Soal-soal %s", in.LearningTopic),
		},
	}
	if len(weak) > 0 {
		out.Assistance = fmt.Sprintf("Fokuskan latihan pada bagian %v. Mulailah dari soal yang lebih sederhana.", weak)
	} else {
		out.Assistance = "Hasil kuis Anda sudah baik. Lanjutkan ke materi berikutnya."
	}
	return out, nil
}
