package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuaderno/internal/model"
)

func TestCollectionOperations(t *testing.T) {
	c := NewCollection[model.Parcel]()
	c.Append(model.Parcel{ID: "p-1", Name: "Olivar"}, model.Parcel{ID: "p-2", Name: "Viña"})
	require.Equal(t, 2, c.Len())

	got, ok := c.Get("p-2")
	require.True(t, ok)
	assert.Equal(t, "Viña", got.Name)

	assert.True(t, c.ReplaceByID(model.Parcel{ID: "p-1", Name: "Olivar Viejo"}))
	assert.False(t, c.ReplaceByID(model.Parcel{ID: "p-9"}))
	assert.Equal(t, "Olivar Viejo", c.All()[0].Name)

	c.Remove("p-1")
	_, ok = c.Get("p-1")
	assert.False(t, ok)

	c.Replace([]model.Parcel{{ID: "p-3"}})
	assert.Equal(t, []model.Parcel{{ID: "p-3"}}, c.All())
}

func TestCollectionAllReturnsCopy(t *testing.T) {
	c := NewCollection[model.Parcel]()
	c.Append(model.Parcel{ID: "p-1", Name: "Olivar"})

	items := c.All()
	items[0].Name = "changed"

	got, _ := c.Get("p-1")
	assert.Equal(t, "Olivar", got.Name)
}

func TestCollectionRemoveWhere(t *testing.T) {
	parcel := "p-1"
	crop := "c-1"
	c := NewCollection[model.Task]()
	c.Append(
		model.Task{ID: "t-1", ParcelID: &parcel},
		model.Task{ID: "t-2", CropID: &crop},
		model.Task{ID: "t-3"},
	)

	n := c.RemoveWhere(func(t model.Task) bool { return t.References(parcel, map[string]bool{crop: true}) })
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Len())
}

func TestCollectionConcurrentAppend(t *testing.T) {
	c := NewCollection[model.Crop]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(model.Crop{})
			_ = c.All()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}

func TestSingleton(t *testing.T) {
	var s Singleton[model.FiscalProfile]
	assert.Nil(t, s.Get())

	s.Set(&model.FiscalProfile{ID: "f", LegalName: "Finca"})
	got := s.Get()
	require.NotNil(t, got)
	got.LegalName = "changed"
	assert.Equal(t, "Finca", s.Get().LegalName)

	s.Set(nil)
	assert.Nil(t, s.Get())
}
