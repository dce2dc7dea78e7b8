package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates root category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("Sneakers")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Sneakers", category.Name)
		assert.Nil(t, category.ParentID)
		assert.True(t, category.IsRoot())
		assert.NotEmpty(t, category.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 256))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 255 characters")
	})
}

func TestNewChildCategory(t *testing.T) {
	parent, err := NewCategory("Sneakers")
	require.NoError(t, err)

	t.Run("creates child under parent", func(t *testing.T) {
		child, err := NewChildCategory("Running", parent)
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.False(t, child.IsRoot())
	})

	t.Run("fails without parent", func(t *testing.T) {
		_, err := NewChildCategory("Running", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Parent category is required")
	})
}

func TestCategoryRename(t *testing.T) {
	category, err := NewCategory("Sneakers")
	require.NoError(t, err)

	t.Run("renames with valid name", func(t *testing.T) {
		version := category.GetVersion()
		require.NoError(t, category.Rename("Boots"))
		assert.Equal(t, "Boots", category.Name)
		assert.Equal(t, version+1, category.GetVersion())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		assert.Error(t, category.Rename(""))
	})
}

func TestCategorySetParent(t *testing.T) {
	category, err := NewCategory("Sneakers")
	require.NoError(t, err)
	parent, err := NewCategory("Shoes")
	require.NoError(t, err)

	t.Run("reparents to another category", func(t *testing.T) {
		require.NoError(t, category.SetParent(&parent.ID))
		require.NotNil(t, category.ParentID)
		assert.Equal(t, parent.ID, *category.ParentID)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		err := category.SetParent(&category.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be its own parent")
	})

	t.Run("clears parent", func(t *testing.T) {
		require.NoError(t, category.SetParent(nil))
		assert.True(t, category.IsRoot())
	})
}
