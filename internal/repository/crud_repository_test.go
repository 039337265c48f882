package repository

import (
	"testing"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrudRepositoryLifecycle(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCrudRepository[models.Brand](db, "name")

	nike := &models.Brand{Name: "Nike", Status: constants.StatusActive}
	require.NoError(t, repo.Create(nike))
	require.NoError(t, repo.Create(&models.Brand{Name: "Adidas", Status: constants.StatusInactive}))

	err := repo.Create(&models.Brand{Name: "Nike", Status: constants.StatusActive})
	require.Error(t, err)
	assert.True(t, IsDuplicateError(err))

	got, err := repo.GetByID(nike.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Nike", got.Name)

	missing, err := repo.GetByID(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, total, err := repo.List(AttributeListFilter{Page: 1, PageSize: 10, Status: constants.StatusActive})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0].Name)

	rows, total, err = repo.List(AttributeListFilter{Page: 1, PageSize: 10, Search: "dida"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Adidas", rows[0].Name)

	exists, err := repo.ExistsBy("name", "Nike", nike.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = repo.ExistsBy("name", "Nike", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	affected, err := repo.Update(nike.ID, map[string]interface{}{"name": "Nike VN"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.Delete(nike.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	affected, err = repo.Delete(nike.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestCrudRepositoryPaginationOrder(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCrudRepository[models.Material](db, "name")
	for _, name := range []string{"Da", "Vải", "Cao su"} {
		require.NoError(t, repo.Create(&models.Material{Name: name, Status: constants.StatusActive}))
	}

	rows, total, err := repo.List(AttributeListFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Da", rows[0].Name)
}
