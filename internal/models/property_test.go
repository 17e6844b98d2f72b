package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProperties() []*Property {
	return []*Property{
		{PropertyID: "P1", Title: "Cozy 2BHK Apartment", Description: "Near the metro station", Type: "Residential", Location: "Koramangala, Bangalore", Price: 500000},
		{PropertyID: "P2", Title: "Luxury Villa", Description: "Private pool and garden", Type: "Residential", Location: "Whitefield, Bangalore", Price: 1500000},
		{PropertyID: "P3", Title: "Office Space", Description: "Open floor plan near METRO", Type: "Commercial", Location: "Andheri, Mumbai", Price: 900000},
	}
}

func TestFilterPropertiesPriceCeiling(t *testing.T) {
	props := testProperties()

	results := FilterProperties(props, &PropertySearch{MaxPrice: 1000000})
	require.Len(t, results, 2)
	assert.Equal(t, "P1", results[0].PropertyID)
	assert.Equal(t, "P3", results[1].PropertyID)

	for _, p := range results {
		assert.LessOrEqual(t, p.Price, 1000000.0)
	}
}

func TestFilterPropertiesPriceMonotonic(t *testing.T) {
	props := testProperties()

	smaller := FilterProperties(props, &PropertySearch{MaxPrice: 600000})
	larger := FilterProperties(props, &PropertySearch{MaxPrice: 2000000})

	// Raising the ceiling must yield a superset
	ids := make(map[string]bool)
	for _, p := range larger {
		ids[p.PropertyID] = true
	}
	for _, p := range smaller {
		assert.True(t, ids[p.PropertyID])
	}
	assert.GreaterOrEqual(t, len(larger), len(smaller))
}

func TestFilterPropertiesKeyword(t *testing.T) {
	props := testProperties()

	// Matches title or description, case-insensitively
	results := FilterProperties(props, &PropertySearch{Keyword: "metro"})
	require.Len(t, results, 2)
	assert.Equal(t, "P1", results[0].PropertyID)
	assert.Equal(t, "P3", results[1].PropertyID)

	results = FilterProperties(props, &PropertySearch{Keyword: "VILLA"})
	require.Len(t, results, 1)
	assert.Equal(t, "P2", results[0].PropertyID)
}

func TestFilterPropertiesLocationAndType(t *testing.T) {
	props := testProperties()

	results := FilterProperties(props, &PropertySearch{Location: "bangalore"})
	assert.Len(t, results, 2)

	results = FilterProperties(props, &PropertySearch{PropertyType: "commercial"})
	require.Len(t, results, 1)
	assert.Equal(t, "P3", results[0].PropertyID)

	// Criteria are ANDed
	results = FilterProperties(props, &PropertySearch{Location: "bangalore", MaxPrice: 600000})
	require.Len(t, results, 1)
	assert.Equal(t, "P1", results[0].PropertyID)
}

func TestFilterPropertiesNoCriteria(t *testing.T) {
	props := testProperties()

	results := FilterProperties(props, &PropertySearch{})
	require.Len(t, results, 3)

	// Original order preserved
	for i, p := range results {
		assert.Equal(t, props[i].PropertyID, p.PropertyID)
	}
}

func TestFilterPropertiesSpecScenario(t *testing.T) {
	props := []*Property{
		{PropertyID: "A", Price: 500000},
		{PropertyID: "B", Price: 1500000},
	}

	results := FilterProperties(props, &PropertySearch{MaxPrice: 1000000})
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].PropertyID)
}
