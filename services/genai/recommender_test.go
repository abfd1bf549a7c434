package genaisvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		recs    []string
		assist  string
		wantErr bool
	}{
		{name: "valid", text: `{"recommendations":["a","b"],"assistance":"try again"}`, recs: []string{"a", "b"}, assist: "try again"},
		{name: "empty list", text: `{"recommendations":[],"assistance":""}`, recs: []string{}},
		{name: "no assistance", text: `{"recommendations":["a"]}`, recs: []string{"a"}},
		{name: "missing recommendations", text: `{"assistance":"x"}`, wantErr: true},
		{name: "recommendations not an array", text: `{"recommendations":"a"}`, wantErr: true},
		{name: "not json", text: `Sure! Here are some resources`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := decodeOutput(tc.text)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errMalformedResponse, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.recs, out.Recommendations)
			assert.Equal(t, tc.assist, out.Assistance)
		})
	}
}
