package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrompt(t *testing.T) {
	prompt, err := RenderPrompt(Input{
		QuizResults:   map[string]float64{"q2_konfigurasi": 40, "q1_dasar": 100, "q3_keamanan": 22.5},
		LearningTopic: "Jaringan Dasar",
		StudentID:     "uid-budi",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "You are an AI tutor"))
	assert.Contains(t, prompt, "Quiz Results:\n  q1_dasar: 100\n  q2_konfigurasi: 40\n  q3_keamanan: 22.5\n")
	assert.Contains(t, prompt, "Learning Topic: Jaringan Dasar")
	assert.NotContains(t, prompt, "uid-budi")
}

func TestStaticRecommender(t *testing.T) {
	tests := []struct {
		name           string
		results        map[string]float64
		wantAssistance string
	}{
		{name: "struggling", results: SimulatedResults, wantAssistance: "[q2_konfigurasi q3_keamanan]"},
		{name: "doing well", results: map[string]float64{"q1_dasar": 90}, wantAssistance: "sudah baik"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := StaticRecommender{}.Recommend(context.Background(), Input{QuizResults: tt.results, LearningTopic: "Subnetting"})
			require.NoError(t, err)
			assert.Equal(t, "Video: Pengantar Subnetting", out.Recommendations[0])
			assert.Contains(t, out.Assistance, tt.wantAssistance)
		})
	}
}
