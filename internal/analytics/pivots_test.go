package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRegionMatrix(t *testing.T) {
	m := CategoryRegionMatrix(sampleDataset(t))

	assert.Equal(t, []string{"Electronics", "Home", "Toys"}, m.Rows)
	assert.Equal(t, []string{"East", "North", "South"}, m.Columns)
	assert.True(t, dec("200").Equal(m.At("Electronics", "North")))
	assert.True(t, dec("100").Equal(m.At("Electronics", "South")))
	assert.True(t, m.At("Electronics", "East").IsZero(), "missing combinations are zero-filled")
	assert.True(t, dec("180").Equal(m.At("Toys", "East")))
	assert.True(t, m.At("Unknown", "East").IsZero())

	table := m.Table()
	assert.Equal(t, TableCategoryRegionMatrix, table.Name)
	assert.Equal(t, []string{LabelCategory, "East", "North", "South"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Len(t, table.Rows[0], 4)
}

func TestProductMonthMatrix(t *testing.T) {
	m := ProductMonthMatrix(sampleDataset(t))

	assert.Equal(t, []string{"ProductA", "ProductB", "ProductC"}, m.Rows)
	assert.Equal(t, []string{"1", "2"}, m.Columns)
	assert.True(t, dec("200").Equal(m.At("ProductA", "1")))
	assert.True(t, dec("100").Equal(m.At("ProductA", "2")))
	assert.True(t, dec("30").Equal(m.At("ProductB", "2")), "years collapse into the month")
	assert.True(t, dec("100").Equal(m.At("ProductC", "2")), "unknown dates are left out")
	assert.True(t, m.At("ProductC", "1").IsZero())
}

func TestMatrix_Empty(t *testing.T) {
	m := CategoryRegionMatrix(dataset(t))

	assert.Empty(t, m.Rows)
	assert.Equal(t, 0, m.Table().Len())
}
