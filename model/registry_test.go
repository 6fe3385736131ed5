package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestFamily(t *testing.T, f *Family) {
	t.Helper()
	require.NoError(t, Register(f))
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, f.Name)
		registryMu.Unlock()
	})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	registerTestFamily(t, gaussianFamily)

	f, ok := Lookup("gaussian1d")
	require.True(t, ok)
	assert.Equal(t, gaussianFamily, f)
	assert.Contains(t, Families(), "gaussian1d")
}

func TestRegistry_DuplicateName_Fails(t *testing.T) {
	registerTestFamily(t, lineFamily)

	err := Register(lineFamily)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDefinition)
}

func TestRegistry_InvalidFamily_Rejected(t *testing.T) {
	err := Register(&Family{Name: "noeval", NInputs: 1, NOutputs: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDefinition)

	_, ok := Lookup("noeval")
	assert.False(t, ok)
}

func TestRegistry_MustRegister_PanicsOnError(t *testing.T) {
	registerTestFamily(t, offsetFamily)
	assert.Panics(t, func() { MustRegister(offsetFamily) })
}
