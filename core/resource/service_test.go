package resource_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	valid := resource.NewResource{Title: "Mengelola Stres", Type: resource.TypeVideo, Source: "YouTube", ImageID: "res1"}

	tests := []struct {
		name      string
		nr        resource.NewResource
		wantField string
		wantTag   string
	}{
		{name: "unknown type", nr: resource.NewResource{Title: valid.Title, Type: "Buku", Source: valid.Source, ImageID: valid.ImageID}, wantField: "Type", wantTag: "resourcetype"},
		{name: "short title", nr: resource.NewResource{Title: "Tips", Type: valid.Type, Source: valid.Source, ImageID: valid.ImageID}, wantField: "Title", wantTag: "min"},
		{name: "missing image", nr: resource.NewResource{Title: valid.Title, Type: valid.Type, Source: valid.Source}, wantField: "ImageID", wantTag: "required"},
		{name: "valid", nr: valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := env.ResourceSvc.Create(context.Background(), tt.nr)
			if tt.wantTag != "" {
				var verrs validator.ValidationErrors
				require.True(t, errors.As(err, &verrs))
				assert.Equal(t, tt.wantField, verrs[0].StructField())
				assert.Equal(t, tt.wantTag, verrs[0].Tag())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, r.ID)
			assert.Equal(t, valid.Title, r.Title)
		})
	}
}

func TestService_UpdateDelete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	r, err := env.ResourceSvc.Create(ctx, resource.NewResource{Title: "Tidur yang Cukup", Type: resource.TypeArticle, Source: "Kemenkes", ImageID: "res2"})
	require.NoError(t, err)

	updated, err := env.ResourceSvc.Update(ctx, r.ID, resource.UpdateResource{Title: "Tidur Berkualitas", Type: resource.TypePodcast, Source: "Spotify", ImageID: "res3"})
	require.NoError(t, err)

	all, err := env.ResourceSvc.Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, []resource.Resource{updated}, all)

	_, err = env.ResourceSvc.Update(ctx, "ghost", resource.UpdateResource{Title: "Tidur Berkualitas", Type: resource.TypePodcast, Source: "Spotify", ImageID: "res3"})
	assert.Equal(t, resource.ErrNotFound, errors.Cause(err))

	require.NoError(t, env.ResourceSvc.Delete(ctx, r.ID))
	assert.Equal(t, resource.ErrNotFound, errors.Cause(env.ResourceSvc.Delete(ctx, r.ID)))
}
