package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gaussianBundleYAML = `
family: gaussian1d
parameters:
  amplitude: 10
  mean: 5
  stddev: 0.3
fixed:
  stddev: true
bounds:
  stddev: {min: 0}
`

func TestBundle_ParseAndBuild(t *testing.T) {
	registerTestFamily(t, gaussianFamily)

	b, err := ParseBundle([]byte(gaussianBundleYAML))
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	m, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 5, 0.3}, m.Parameters())
	assert.True(t, m.Fixed()["stddev"])
	require.Contains(t, m.Bounds(), "stddev")
	assert.Equal(t, 0.0, *m.Bounds()["stddev"].Min)
	assert.Nil(t, m.Bounds()["stddev"].Max)

	out, err := m.Eval(Scalar(5))
	require.NoError(t, err)
	v, _ := out[0].Scalar()
	assert.InDelta(t, 10.0, v, 1e-12)
}

func TestBundle_LoadFromFile(t *testing.T) {
	registerTestFamily(t, gaussianFamily)

	path := filepath.Join(t.TempDir(), "gaussian.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gaussianBundleYAML), 0o644))

	b, err := LoadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, "gaussian1d", b.Family)
}

func TestBundle_ModelSetAxisAndNestedValues(t *testing.T) {
	registerTestFamily(t, lineFamily)

	b, err := ParseBundle([]byte(`
family: line
model_set_axis: 0
parameters:
  slope: [1, 2]
  intercept: [0, 1]
`))
	require.NoError(t, err)

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, m.NModels())
}

func TestBundle_UnknownFamily_Fails(t *testing.T) {
	b, err := ParseBundle([]byte("family: nosuch"))
	require.NoError(t, err)
	err = b.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputParameter)
	assert.Contains(t, err.Error(), "nosuch")
}

func TestBundle_UndeclaredParameter_Fails(t *testing.T) {
	registerTestFamily(t, lineFamily)

	b, err := ParseBundle([]byte("family: line\nparameters:\n  wiggle: 3\n"))
	require.NoError(t, err)
	err = b.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputParameter)
	assert.Contains(t, err.Error(), "wiggle")
}

func TestBundle_MalformedYAML_Fails(t *testing.T) {
	_, err := ParseBundle([]byte("family: [unclosed"))
	require.Error(t, err)
}

func TestBundle_MissingFamily_Fails(t *testing.T) {
	b, err := ParseBundle([]byte("parameters: {}"))
	require.NoError(t, err)
	assert.ErrorIs(t, b.Validate(), ErrInputParameter)
}
