package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcademicYear(t *testing.T) {
	t.Run("valid name", func(t *testing.T) {
		y, err := NewAcademicYear("2024/2025")
		require.NoError(t, err)
		assert.Equal(t, "2024/2025", y.Name)
		assert.False(t, y.IsActive)
		assert.Equal(t, 2024, y.StartYear())
		assert.Equal(t, 2025, y.EndYear())
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", "2024", "2024-2025", "24/25", "2024/20255"} {
			_, err := NewAcademicYear(name)
			assert.Error(t, err, name)
		}
	})
}

func TestAcademicYearActivation(t *testing.T) {
	y, err := NewAcademicYear("2025/2026")
	require.NoError(t, err)

	y.Activate()
	assert.True(t, y.IsActive)

	y.Deactivate()
	assert.False(t, y.IsActive)
}

func TestAcademicYearRename(t *testing.T) {
	y, err := NewAcademicYear("2024/2025")
	require.NoError(t, err)

	require.NoError(t, y.Rename("2025/2026"))
	assert.Equal(t, "2025/2026", y.Name)

	assert.Error(t, y.Rename("next year"))
	assert.Equal(t, "2025/2026", y.Name)
}
