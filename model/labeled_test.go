package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabeledContainer_LengthMismatch_Fails(t *testing.T) {
	_, err := NewLabeledContainer([]string{"x", "y"}, []*Array{Scalar(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLabeledContainer_AddKeepsLabelsAndValuesInSync(t *testing.T) {
	// GIVEN a container with two labels
	arrX, arrY, arrZ := Vector(1), Vector(2), Vector(3)
	c, err := NewLabeledContainer([]string{"x", "y"}, []*Array{arrX, arrY})
	require.NoError(t, err)

	// WHEN a new label is merged in
	c.Add(map[string]*Array{"z": arrZ})

	// THEN labels and mapping stay synchronized
	assert.Equal(t, []string{"x", "y", "z"}, c.Labels())
	got, err := c.Get("z")
	require.NoError(t, err)
	assert.Same(t, arrZ, got)
}

func TestLabeledContainer_SetExistingLabel_NoDuplicate(t *testing.T) {
	c, err := NewLabeledContainer([]string{"x"}, []*Array{Scalar(1)})
	require.NoError(t, err)

	c.Set("x", Scalar(2))
	assert.Equal(t, []string{"x"}, c.Labels())
	v, _ := c.Get("x")
	got, _ := v.Scalar()
	assert.Equal(t, 2.0, got)
}

func TestLabeledContainer_Remove_DropsLabelAndValue(t *testing.T) {
	c, err := NewLabeledContainer([]string{"x", "y"}, []*Array{Scalar(1), Scalar(2)})
	require.NoError(t, err)

	c.Remove("x")
	assert.Equal(t, []string{"y"}, c.Labels())
	assert.False(t, c.Has("x"))
	_, err = c.Get("x")
	assert.ErrorIs(t, err, ErrInputParameter)

	// Removing an absent label is a no-op
	c.Remove("ghost")
	assert.Equal(t, 1, c.Len())
}

func TestLabeledContainer_LabelsAreTrimmed(t *testing.T) {
	c, err := NewLabeledContainer([]string{" x ", "y"}, []*Array{Scalar(1), Scalar(2)})
	require.NoError(t, err)
	assert.True(t, c.Has("x"))
	assert.Equal(t, []string{"x", "y"}, c.Labels())
}

func TestLabeledContainer_Copy_IsShallow(t *testing.T) {
	// GIVEN a copied container
	shared := Vector(1, 2)
	c, err := NewLabeledContainer([]string{"x"}, []*Array{shared})
	require.NoError(t, err)
	cp := c.Copy()

	// WHEN the copy gains a label
	cp.Set("y", Scalar(0))

	// THEN the original structure is unaffected
	assert.False(t, c.Has("y"))
	assert.Equal(t, []string{"x"}, c.Labels())

	// AND array contents are shared, not deep-copied
	got, _ := cp.Get("x")
	assert.Same(t, shared, got)
	shared.Set(9, 0)
	fromCopy, _ := cp.Get("x")
	assert.Equal(t, 9.0, fromCopy.At(0))
}
