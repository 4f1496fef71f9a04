package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbind/formbind/internal/format"
)

const ordersPageYAML = "page: orders_entry\n" +
	"datasets:\n" +
	"  orders:\n" +
	"    fields:\n" +
	"      total:\n" +
	"        ui_id: totalInput\n" +
	"        kind: currency\n" +
	"      discount_pct:\n" +
	"        ui_id: discountInput\n" +
	"        kind: percent\n" +
	"        max_fraction_digits: 1\n"

func TestNewPageParser(t *testing.T) {
	assert.NotNil(t, NewPageParser())
}

func TestLoadFromFile_Success(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_page_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.Write([]byte(ordersPageYAML))
	require.NoError(t, err)
	tmpfile.Close()

	def, err := NewPageParser().LoadFromFile(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "orders_entry", def.Page)
	assert.Len(t, def.Datasets, 1)
	assert.Contains(t, def.Datasets, "orders")
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	def, err := NewPageParser().LoadFromFile("nonexistent_page.yaml")
	assert.Error(t, err)
	assert.Nil(t, def)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_InvalidYAML(t *testing.T) {
	def, err := NewPageParser().Parse([]byte("datasets:\n\torders: {}\n"))
	assert.Error(t, err)
	assert.Nil(t, def)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"no datasets":   "page: p\n",
		"no fields":     "datasets:\n  orders:\n    fields: {}\n",
		"missing ui_id": "datasets:\n  orders:\n    fields:\n      total: {kind: currency}\n",
		"unknown kind":  "datasets:\n  orders:\n    fields:\n      total: {ui_id: t, kind: date}\n",
		"max below min": "datasets:\n  orders:\n    fields:\n      total: {ui_id: t, kind: currency, min_fraction_digits: 3, max_fraction_digits: 1}\n",
		"negative min":  "datasets:\n  orders:\n    fields:\n      total: {ui_id: t, kind: currency, min_fraction_digits: -1}\n",
	}
	for name, doc := range cases {
		_, err := NewPageParser().Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestStructure_SortedAndDefaulted(t *testing.T) {
	def, err := NewPageParser().Parse([]byte(ordersPageYAML))
	require.NoError(t, err)

	structure, err := def.Structure()
	require.NoError(t, err)
	require.Len(t, structure, 1)
	require.Len(t, structure[0].Fields, 2)

	assert.Equal(t, "orders", structure[0].Source)
	// Field keys sorted: discount_pct before total.
	discount := structure[0].Fields[0]
	assert.Equal(t, "discount_pct", discount.RecordKey)
	assert.Equal(t, "discountInput", discount.ElementID)
	assert.Equal(t, format.Percent(0, 1), discount.Format)

	total := structure[0].Fields[1]
	assert.Equal(t, "total", total.RecordKey)
	assert.Equal(t, "totalInput", total.ElementID)
	assert.Equal(t, format.Currency(2, 2), total.Format)
}

func TestStructure_LoneMaxNarrowsDefaultMin(t *testing.T) {
	doc := "datasets:\n  orders:\n    fields:\n      total: {ui_id: t, kind: currency, max_fraction_digits: 0}\n"
	def, err := NewPageParser().Parse([]byte(doc))
	require.NoError(t, err)

	structure, err := def.Structure()
	require.NoError(t, err)
	assert.Equal(t, format.Currency(0, 0), structure[0].Fields[0].Format)
}
