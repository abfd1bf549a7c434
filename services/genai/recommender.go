// Package genaisvc asks a Gemini model for learning recommendations.
package genaisvc

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/tutor"
)

const defaultModel = "gemini-2.0-flash"

var errMalformedResponse = errors.New("model response does not match the output schema")

// outputSchema mirrors tutor.Output.
var outputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendations": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Personalized learning resource recommendations.",
		},
		"assistance": {
			Type:        genai.TypeString,
			Description: "Hints or simpler questions if the student is struggling.",
		},
	},
	Required: []string{"recommendations", "assistance"},
}

// Recommender is a tutor.Recommender backed by the Gemini API.
type Recommender struct {
	client *genai.Client
	model  string
}

var _ tutor.Recommender = (*Recommender)(nil)

func NewClient(ctx context.Context, conf *core.Config) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.GenAI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	return client, errors.Wrap(err, "creating genai client")
}

func NewRecommender(client *genai.Client, conf *core.Config) *Recommender {
	model := conf.GenAI.Model
	if model == "" {
		model = defaultModel
	}
	return &Recommender{client: client, model: model}
}

func (r *Recommender) Recommend(ctx context.Context, in tutor.Input) (tutor.Output, error) {
	prompt, err := tutor.RenderPrompt(in)
	if err != nil {
		return tutor.Output{}, errors.Wrap(err, "rendering prompt")
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   outputSchema,
	})
	if err != nil {
		return tutor.Output{}, errors.Wrap(err, "generating content")
	}
	return decodeOutput(resp.Text())
}

// decodeOutput checks the model answer against the output shape before trusting it.
func decodeOutput(text string) (tutor.Output, error) {
	var raw struct {
		Recommendations *[]string `json:"recommendations"`
		Assistance      *string   `json:"assistance"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return tutor.Output{}, errors.Wrap(errMalformedResponse, err.Error())
	}
	if raw.Recommendations == nil {
		return tutor.Output{}, errMalformedResponse
	}

	out := tutor.Output{Recommendations: *raw.Recommendations}
	if raw.Assistance != nil {
		out.Assistance = *raw.Assistance
	}
	return out, nil
}
