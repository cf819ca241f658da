package effect

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"cinematic_zoom", Zoom},
		{"cinematic-zoom", Zoom},
		{"  Cinematic_Zoom ", Zoom},
		{"glitch_transition", Glitch},
		{"glitch-transition", Glitch},
		{"vhs_effect", VHS},
		{"vhs-effect", VHS},
		{"meme_fusion", MemeFusion},
		{"noir-filter", Unknown},
		{"sepia", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestType_RequiresEncoder(t *testing.T) {
	assert.True(t, Zoom.RequiresEncoder())
	assert.True(t, Glitch.RequiresEncoder())
	assert.True(t, VHS.RequiresEncoder())
	assert.False(t, MemeFusion.RequiresEncoder())
	assert.False(t, Unknown.RequiresEncoder())
	assert.Equal(t, "unknown", Unknown.String())
}

func TestParams_Float(t *testing.T) {
	t.Run("missing key uses default", func(t *testing.T) {
		got, err := Params{}.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 1.2, got)
	})

	t.Run("nil params use default", func(t *testing.T) {
		var p Params
		got, err := p.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 1.2, got)
	})

	t.Run("null value uses default", func(t *testing.T) {
		got, err := Params{"zoom": nil}.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 1.2, got)
	})

	t.Run("decoded JSON number", func(t *testing.T) {
		var p Params
		require.NoError(t, json.Unmarshal([]byte(`{"zoom": 1.5}`), &p))
		got, err := p.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 1.5, got)
	})

	t.Run("int and numeric string", func(t *testing.T) {
		got, err := Params{"zoom": 2}.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 2.0, got)

		got, err = Params{"zoom": " 1.75"}.Float("zoom", 1.2)
		require.NoError(t, err)
		assert.Equal(t, 1.75, got)
	})

	t.Run("non numeric string", func(t *testing.T) {
		_, err := Params{"zoom": "big"}.Float("zoom", 1.2)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Params{"zoom": []any{1}}.Float("zoom", 1.2)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("non finite values", func(t *testing.T) {
		for _, v := range []any{"NaN", "Inf", "-inf", "1e400", math.NaN(), math.Inf(1)} {
			_, err := Params{"zoom": v}.Float("zoom", 1.2)
			assert.ErrorIs(t, err, ErrInvalidParams, "value %v", v)
		}
	})
}

func TestParams_ZoomFactor(t *testing.T) {
	z, err := Params{}.ZoomFactor()
	require.NoError(t, err)
	assert.Equal(t, 1.2, z)

	_, err = Params{"zoom": 0.0}.ZoomFactor()
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Params{"zoom": "NaN"}.ZoomFactor()
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParams_NoiseLevel(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   int
	}{
		{"default intensity", Params{}, 10},
		{"half intensity", Params{"intensity": 0.5}, 10},
		{"truncates", Params{"intensity": 0.79}, 15},
		{"zero", Params{"intensity": 0.0}, 0},
		{"full", Params{"intensity": 1.0}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.NoiseLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Params{"intensity": -1.0}.NoiseLevel()
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, 4)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		assert.Equal(t, "video", e.Category)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Description)
	}
	assert.Equal(t, []string{"cinematic-zoom", "glitch-transition", "vhs-effect", "noir-filter"}, ids)
	assert.Equal(t, "Zoom cinematografico", entries[0].Description)
	assert.Equal(t, "Filtro noir bianco e nero", entries[3].Description)
}
