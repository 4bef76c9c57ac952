package report

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/internal/domain"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func chairAndLamp() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Chair", Description: "Wood", Quantity: 5, Price: 49.99},
		{ID: "2", Name: "Lamp", Description: "Desk", Quantity: 2, Price: 15.5},
	}
}

func TestAggregateKeepsInputOrder(t *testing.T) {
	slices := Aggregate(chairAndLamp(), nil)
	require.Len(t, slices, 2)
	assert.Equal(t, "Chair", slices[0].Label)
	assert.Equal(t, 5, slices[0].Value)
	assert.Equal(t, "Lamp", slices[1].Label)
	assert.Equal(t, 2, slices[1].Value)
	for _, s := range slices {
		assert.Regexp(t, hexColor, s.Color)
	}
}

func TestHashColorsStable(t *testing.T) {
	first := Aggregate(chairAndLamp(), HashColors)
	second := Aggregate(chairAndLamp(), HashColors)
	assert.Equal(t, first, second)
	assert.Equal(t, HashColors("Chair", 0), HashColors("Chair", 7))
}

func TestRandomColorsAlwaysSixDigits(t *testing.T) {
	for i := 0; i < 500; i++ {
		assert.Regexp(t, hexColor, RandomColors("x", i))
	}
}

func TestSchemeByName(t *testing.T) {
	assert.Equal(t, HashColors("Chair", 0), SchemeByName("hash")("Chair", 0))
	assert.Equal(t, HashColors("Chair", 0), SchemeByName("")("Chair", 0))
	assert.Regexp(t, hexColor, SchemeByName("Random")("Chair", 0))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, []string{"Chair: 5", "Lamp: 2"}, Summarize(chairAndLamp()))
	assert.Empty(t, Summarize(nil))
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(chairAndLamp())
	assert.Equal(t, 2, st.Products)
	assert.Equal(t, 7, st.Units)
	assert.InDelta(t, 3.5, st.MeanQuantity, 1e-9)
	assert.InDelta(t, 3.5, st.MedianQuantity, 1e-9)
	assert.Equal(t, "280.95", st.StockValue.StringFixed(2))

	empty := ComputeStats(nil)
	assert.Zero(t, empty.Products)
	assert.True(t, empty.StockValue.IsZero())
}
