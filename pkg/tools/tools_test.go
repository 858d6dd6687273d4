package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{"clone", "link", "run"}, reg.List())

	for _, name := range reg.List() {
		impl, err := reg.Get(name)
		assert.NoError(t, err)
		assert.Equal(t, name, impl.Name())
		assert.NotNil(t, impl.Schema())
	}
}
