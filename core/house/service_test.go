package house_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)

	tests := []struct {
		name    string
		nh      house.NewHouse
		wantTag string
	}{
		{name: "short name", nh: house.NewHouse{Name: " Ga "}, wantTag: "housename"},
		{name: "negative points", nh: house.NewHouse{Name: "Garuda", TotalPoints: -1}, wantTag: "housepoints"},
		{name: "bad emblem", nh: house.NewHouse{Name: "Garuda", EmblemURL: "emblem"}, wantTag: "url"},
		{name: "valid", nh: house.NewHouse{Name: "  Garuda ", TotalPoints: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := env.HouseSvc.Create(context.Background(), tt.nh)
			if tt.wantTag != "" {
				var verrs validator.ValidationErrors
				require.True(t, errors.As(err, &verrs))
				assert.Equal(t, tt.wantTag, verrs[0].Tag())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, h.ID)
			assert.Equal(t, "Garuda", h.Name)
			assert.Equal(t, 100, h.TotalPoints)
		})
	}
}

func TestService_Query(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	for name, points := range map[string]int{"Cendekia": 11230, "Nusantara": 12540, "Pertiwi": 10850, "Garuda": 11890} {
		_, err := env.HouseSvc.Create(ctx, house.NewHouse{Name: name, TotalPoints: points})
		require.NoError(t, err)
	}

	houses, err := env.HouseSvc.Query(ctx)
	require.NoError(t, err)

	var names []string
	for _, h := range houses {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Nusantara", "Garuda", "Cendekia", "Pertiwi"}, names)
}

func TestService_UpdateDelete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	h, err := env.HouseSvc.Create(ctx, house.NewHouse{Name: "Garuda", TotalPoints: 10})
	require.NoError(t, err)

	_, err = env.HouseSvc.Update(ctx, "ghost", house.UpdateHouse{Name: "Garuda"})
	assert.Equal(t, house.ErrNotFound, errors.Cause(err))

	updated, err := env.HouseSvc.Update(ctx, h.ID, house.UpdateHouse{Name: "Garuda Emas", TotalPoints: 42})
	require.NoError(t, err)
	assert.Equal(t, house.House{ID: h.ID, Name: "Garuda Emas", TotalPoints: 42}, updated)

	stored, err := env.HouseSvc.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	require.NoError(t, env.HouseSvc.Delete(ctx, h.ID))
	_, err = env.HouseSvc.GetByID(ctx, h.ID)
	assert.Equal(t, house.ErrNotFound, errors.Cause(err))
	assert.Equal(t, house.ErrNotFound, errors.Cause(env.HouseSvc.Delete(ctx, h.ID)))
}
