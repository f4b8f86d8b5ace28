package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/optim"
)

func TestRunJSON(t *testing.T) {
	opt := field.Param{U: -0.115, V: 6.24}
	run := &Run{
		Timestamp:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Points:       classic,
		LearningRate: 0.01,
		Steps:        2,
		Path:         []field.Param{{}, {U: 0.5, V: 0.1}, {U: 0.6, V: 0.2}},
		Losses:       []float64{36.3, 20.1, 18.7},
		Optimum:      &opt,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRunJSON(&buf, run))
	assert.Contains(t, buf.String(), `"learning_rate": 0.01`)

	back, err := ReadRunJSON(&buf)
	require.NoError(t, err)
	assert.True(t, run.Timestamp.Equal(back.Timestamp))
	assert.Equal(t, run.Path, back.Path)
	require.NotNil(t, back.Optimum)
	assert.Equal(t, opt, *back.Optimum)

	last, ok := back.Final()
	assert.True(t, ok)
	assert.Equal(t, field.Param{U: 0.6, V: 0.2}, last)
}

func TestRunJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteRunJSON(&buf, &Run{}), ErrNothingToExport)
	assert.ErrorIs(t, WriteRunJSON(&buf, nil), ErrNothingToExport)

	_, ok := (&Run{}).Final()
	assert.False(t, ok)
}

func TestRunJSON_DivergentDescent(t *testing.T) {
	path, err := optim.Descend(classic, field.Param{}, 0.05, 1000)
	require.ErrorIs(t, err, optim.ErrDiverged)
	losses, err := optim.Losses(classic, path)
	require.NoError(t, err)

	var buf bytes.Buffer
	run := &Run{LearningRate: 0.05, Steps: len(path) - 1, Points: classic, Path: path, Losses: losses}
	require.NoError(t, WriteRunJSON(&buf, run))
	assert.NotZero(t, buf.Len())
}

func TestRunJSON_RejectsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	run := &Run{Path: []field.Param{{}, {U: 1}}, Losses: []float64{1, math.Inf(1)}}
	assert.ErrorIs(t, WriteRunJSON(&buf, run), ErrNonFinite)
	assert.Zero(t, buf.Len())

	run = &Run{Path: []field.Param{{U: math.NaN()}}}
	assert.ErrorIs(t, WriteRunJSON(&buf, run), ErrNonFinite)
}
