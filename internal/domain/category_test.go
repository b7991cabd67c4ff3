package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCategories() []Category {
	return []Category{
		{ID: 1, Name: "Clothing", Parent: 0},
		{ID: 2, Name: "Shirts", Parent: 1},
		{ID: 3, Name: "T-Shirts", Parent: 2},
		{ID: 4, Name: "Accessories", Parent: 0},
	}
}

func TestTopLevelCategories(t *testing.T) {
	top := TopLevelCategories(sampleCategories())

	require.Len(t, top, 2)
	assert.Equal(t, "Clothing", top[0].Name)
	assert.Equal(t, "Accessories", top[1].Name)
}

func TestSubcategories(t *testing.T) {
	children := Subcategories(sampleCategories(), 1)
	require.Len(t, children, 1)
	assert.Equal(t, "Shirts", children[0].Name)

	assert.Empty(t, Subcategories(sampleCategories(), 4))
	assert.Nil(t, Subcategories(sampleCategories(), 0), "zero parent is not a valid lookup key")
}

func TestCategoryPath(t *testing.T) {
	path := CategoryPath(sampleCategories(), 3)

	require.Len(t, path, 3)
	assert.Equal(t, "Clothing", path[0].Name)
	assert.Equal(t, "Shirts", path[1].Name)
	assert.Equal(t, "T-Shirts", path[2].Name)
}

func TestCategoryPath_UnknownID(t *testing.T) {
	assert.Empty(t, CategoryPath(sampleCategories(), 99))
}

func TestCategoryPath_BrokenParentLink(t *testing.T) {
	cats := []Category{{ID: 2, Name: "Orphan", Parent: 50}}

	path := CategoryPath(cats, 2)
	require.Len(t, path, 1)
	assert.Equal(t, "Orphan", path[0].Name)
}

func TestCategoryPath_CycleTerminates(t *testing.T) {
	cats := []Category{
		{ID: 1, Name: "A", Parent: 2},
		{ID: 2, Name: "B", Parent: 1},
	}

	path := CategoryPath(cats, 1)
	assert.Len(t, path, 2)
}
