package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name    string
		widths  []int
		wantErr bool
	}{
		{"xor", []int{2, 2, 1}, false},
		{"deep", []int{4, 8, 6, 3, 2}, false},
		{"no hidden layer", []int{2, 1}, true},
		{"empty", nil, true},
		{"zero width", []int{2, 0, 1}, true},
		{"negative width", []int{2, 3, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.widths...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCopiesWidths(t *testing.T) {
	widths := []int{2, 3, 1}
	top, err := New(widths...)
	require.NoError(t, err)

	widths[1] = 100
	assert.Equal(t, 3, top.Width(1))
}

func TestAccessors(t *testing.T) {
	top := MustNew(3, 7, 5, 2)

	assert.Equal(t, 4, top.Layers())
	assert.Equal(t, 3, top.ConLayers())
	assert.Equal(t, 3, top.OutputLayer())
	assert.Equal(t, 3, top.InputWidth())
	assert.Equal(t, 2, top.OutputWidth())
	assert.Equal(t, 7, top.MaxWidth())
	assert.Equal(t, 7, top.MaxNonInputWidth())
	assert.Equal(t, 3*7+7*5+5*2, top.NumWeights())
}

func TestMaxNonInputWidthIgnoresInput(t *testing.T) {
	top := MustNew(10, 3, 4)
	assert.Equal(t, 10, top.MaxWidth())
	assert.Equal(t, 4, top.MaxNonInputWidth())
}

func TestParseRoundTrip(t *testing.T) {
	top := MustNew(2, 5, 3, 1)
	assert.Equal(t, "2-5-3-1", top.String())

	parsed, err := Parse(top.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(top))

	// weight files carry a trailing dash
	parsed, err = Parse("2-5-3-1-\n")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(top))
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "-", "2-x-1", "2-1", "2--1"} {
		_, err := Parse(s)
		assert.Error(t, err, "Parse(%q)", s)
	}
}

func TestEqual(t *testing.T) {
	a := MustNew(2, 2, 1)
	assert.True(t, a.Equal(MustNew(2, 2, 1)))
	assert.False(t, a.Equal(MustNew(2, 3, 1)))
	assert.False(t, a.Equal(MustNew(2, 2, 2, 1)))
}
