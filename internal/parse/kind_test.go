package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bloompal-backend/internal/model"
)

func TestPlantType(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  model.PlantType
		expectErr bool
	}{
		{name: "Display name", raw: "Flowering Plant", expected: model.PlantTypeFlowering},
		{name: "Key", raw: "succulent", expected: model.PlantTypeSucculent},
		{name: "Upper case without suffix", raw: "FOLIAGE", expected: model.PlantTypeFoliage},
		{name: "Extra whitespace", raw: "  flowering \t plant ", expected: model.PlantTypeFlowering},
		{name: "Herb", raw: "Herb", expected: model.PlantTypeHerb},
		{name: "Blank defaults to foliage", raw: "   ", expected: model.PlantTypeFoliage},
		{name: "Unknown", raw: "Cactus tree", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := PlantType(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestPlantCategoryAndLocation(t *testing.T) {
	c, err := PlantCategory("Exotic")
	assert.NoError(t, err)
	assert.Equal(t, model.PlantCategoryExotic, c)

	c, err = PlantCategory("")
	assert.NoError(t, err)
	assert.Equal(t, model.PlantCategoryCommon, c)

	_, err = PlantCategory("rare")
	assert.Error(t, err)

	l, err := PlantLocation("outdoor")
	assert.NoError(t, err)
	assert.Equal(t, model.PlantLocationOutdoor, l)

	l, err = PlantLocation("")
	assert.NoError(t, err)
	assert.Equal(t, model.PlantLocationIndoor, l)

	_, err = PlantLocation("balcony")
	assert.Error(t, err)
}

func TestIntervalDays(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int
		expectErr bool
	}{
		{name: "Plain number", raw: "14", expected: 14},
		{name: "Padded", raw: " 3 ", expected: 3},
		{name: "Blank uses default", raw: "", expected: 7},
		{name: "Zero passes through", raw: "0", expected: 0},
		{name: "Negative sign rejected", raw: "-2", expectErr: true},
		{name: "Letters rejected", raw: "weekly", expectErr: true},
		{name: "Overflow rejected", raw: "99999999999999999999999", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := IntervalDays(tc.raw, 7)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}
