package handlers

import (
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromQuery(t *testing.T) {
	q := map[string]string{"rotate": "true", "stack": "1", "mix_items": "false", "spacing": "3.5"}
	base := model.DefaultPlanSettings()

	got, err := settingsFromQuery(base, func(k string) string { return q[k] })
	require.NoError(t, err)
	assert.True(t, got.Rotate)
	assert.True(t, got.Stack)
	assert.False(t, got.MixItems)
	assert.Equal(t, base.Consolidate, got.Consolidate)
	assert.Equal(t, 3.5, got.Spacing)
}

func TestSettingsFromQueryInvalid(t *testing.T) {
	for _, q := range []map[string]string{{"fill_rows": "yes please"}, {"spacing": "wide"}} {
		_, err := settingsFromQuery(model.DefaultPlanSettings(), func(k string) string { return q[k] })
		assert.Error(t, err, "query %v", q)
	}
}

func TestPlanHandlerContainer(t *testing.T) {
	h := &PlanHandler{DefaultContainer: model.StandardTrailer()}

	c, err := h.container("", nil)
	require.NoError(t, err)
	assert.Equal(t, "Standard trailer", c.Name)

	c, err = h.container(" 40FT ", nil)
	require.NoError(t, err)
	assert.Equal(t, 1203.0, c.Length)

	custom := model.Container{Name: "Van", Width: 180}
	c, err = h.container("", &custom)
	require.NoError(t, err)
	assert.Equal(t, "Van", c.Name)

	_, err = h.container("20ft", &custom)
	assert.Error(t, err)
	_, err = h.container("bogus", nil)
	assert.Error(t, err)
}
