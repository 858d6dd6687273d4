package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Name  string
	Value string
}

func TestRegisterAndGet(t *testing.T) {
	reg := New[testItem]()

	require.NoError(t, reg.Register("one", testItem{Name: "one", Value: "v1"}))
	assert.Equal(t, 1, reg.Count())
	assert.True(t, reg.Has("one"))

	item, err := reg.Get("one")
	require.NoError(t, err)
	assert.Equal(t, "v1", item.Value)
}

func TestRegisterEmptyName(t *testing.T) {
	reg := New[testItem]()
	err := reg.Register("", testItem{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegisterDuplicate(t *testing.T) {
	reg := New[testItem]()
	require.NoError(t, reg.Register("one", testItem{}))

	err := reg.Register("one", testItem{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestGetMissing(t *testing.T) {
	reg := New[testItem]()
	_, err := reg.Get("ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestListSorted(t *testing.T) {
	reg := New[testItem]()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(name, testItem{Name: name}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.List())
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(fmt.Sprintf("item-%d", i), i)
			_ = reg.Has("item-0")
			_ = reg.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, reg.Count())
}

func TestMustRegisterPanics(t *testing.T) {
	reg := New[testItem]()
	MustRegister(reg, "one", testItem{})
	assert.Panics(t, func() {
		MustRegister(reg, "one", testItem{})
	})
}
