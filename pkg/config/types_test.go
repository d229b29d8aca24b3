package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverridesClone(t *testing.T) {
	o := Overrides{
		"helix": {"thread_count": 3},
	}
	c := o.Clone()
	c["helix"]["thread_count"] = 9
	assert.Equal(t, 3, o["helix"]["thread_count"])
	assert.Equal(t, 9, c["helix"]["thread_count"])
}

func TestOverridesCloneNil(t *testing.T) {
	var o Overrides
	assert.Nil(t, o.Clone())
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	v := NewValidator(&cfg)
	assert.NoError(t, v.ValidateAll())
}
