package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallImpliesStoreAndResize(t *testing.T) {
	assert.True(t, Call.Has(MemoryStore))
	assert.True(t, Call.Has(MemoryResize))
	assert.False(t, Call.Has(MemoryLoad))
}

func TestRequiresUpdate(t *testing.T) {
	assert.False(t, None.RequiresUpdate())
	assert.False(t, MemoryLoad.RequiresUpdate())
	assert.True(t, MemoryStore.RequiresUpdate())
	assert.True(t, MemoryResize.RequiresUpdate())
	assert.True(t, Call.RequiresUpdate())
	assert.True(t, (MemoryLoad | MemoryStore).RequiresUpdate())
}

func TestEffectString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "load", MemoryLoad.String())
	assert.Equal(t, "load|store", (MemoryLoad | MemoryStore).String())
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "call|load", (Call | MemoryLoad).String())
}
