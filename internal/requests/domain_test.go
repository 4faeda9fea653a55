package requests_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wastewise/wastewise-console/internal/requests"
	_ "github.com/wastewise/wastewise-console/testing"
)

func TestSanitizeClampsAndDefaults(t *testing.T) {
	p := requests.ListParams{Page: -3, Limit: 500, SortBy: "secret", SortOrder: "sideways", Status: "Weird", Type: "Odd"}.Sanitize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Empty(t, p.Status)
	assert.Empty(t, p.Type)
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	p := requests.ListParams{Page: 2, Limit: 25, SortBy: "status", SortOrder: "asc", Status: requests.StatusPending, Type: requests.TypeUrgent}.Sanitize()

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "status", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, requests.StatusPending, p.Status)
	assert.Equal(t, requests.TypeUrgent, p.Type)
}

func TestResetPageOnFilterChange(t *testing.T) {
	prev := requests.ListParams{Page: 4, Limit: 10, Status: requests.StatusPending}.Sanitize()

	changed := requests.ListParams{Page: 4, Limit: 10, Status: requests.StatusCompleted}.Sanitize().ResetPage(prev)
	assert.Equal(t, 1, changed.Page)

	samePage := requests.ListParams{Page: 5, Limit: 10, Status: requests.StatusPending}.Sanitize().ResetPage(prev)
	assert.Equal(t, 5, samePage.Page)
}

func TestValuesOmitsEmptyFilters(t *testing.T) {
	values := requests.ListParams{Page: 2, Limit: 10, Q: "colombo"}.Sanitize().Values()

	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "10", values.Get("limit"))
	assert.Equal(t, "colombo", values.Get("q"))
	assert.False(t, values.Has("status"))
	assert.False(t, values.Has("dateFrom"))
}

func TestKnownStatusAndType(t *testing.T) {
	assert.True(t, requests.KnownStatus(requests.StatusInProgress))
	assert.False(t, requests.KnownStatus("Done"))
	assert.True(t, requests.KnownType(requests.TypeEmergency))
	assert.False(t, requests.KnownType("Routine"))
}
