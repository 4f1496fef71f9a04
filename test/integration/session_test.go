package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbind/formbind/internal/binding"
	"github.com/formbind/formbind/internal/config"
	"github.com/formbind/formbind/internal/host"
	"github.com/formbind/formbind/internal/host/hosttest"
)

func TestEndToEndPageSession(t *testing.T) {
	// Load the page definition the way an integrating page would.
	parser := config.NewPageParser()
	def, err := parser.LoadFromFile("../testdata/orders_page.yaml")
	require.NoError(t, err)
	assert.Equal(t, "orders_entry", def.Page)

	structure, err := def.Structure()
	require.NoError(t, err)
	require.Len(t, structure, 2)

	// Build the host collaborators the structure names.
	page := hosttest.NewFakePage()
	page.AddRecordSource("orders", host.Record{
		"total":        1234.5,
		"discount_pct": 12.345,
	})
	page.AddRecordSource("invoices", host.Record{"amount_due": 250})
	page.AddElement("totalInput")
	page.AddElement("discountInput")
	page.AddElement("amountDueInput")

	session := binding.New(page)
	require.NoError(t, session.Init(structure))

	// Ready events render every field of their source.
	page.GetRecordSource("orders").FireReady()
	page.GetRecordSource("invoices").FireReady()
	assert.Equal(t, "$1,234.50", page.GetElement("totalInput").Value())
	assert.Equal(t, "12.3%", page.GetElement("discountInput").Value())
	assert.Equal(t, "$250.00", page.GetElement("amountDueInput").Value())

	// A user edit flows the parsed value into the record and the
	// canonical formatted form back into the input.
	page.EditElement("totalInput", "1,300")
	stored, ok := page.GetRecordSource("orders").CurrentItem()["total"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, stored.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, "$1,300.00", page.GetElement("totalInput").Value())

	// Refresh reloads the post-refresh record into the UI.
	page.GetRecordSource("invoices").NextRecord = host.Record{"amount_due": 300.5}
	require.NoError(t, session.RefreshDataset(context.Background(), "invoices"))
	assert.Equal(t, "$300.50", page.GetElement("amountDueInput").Value())

	// An explicit load of an unregistered source touches nothing.
	err = session.LoadDataset("shipments")
	assert.True(t, errors.Is(err, binding.ErrSourceNotRegistered))
	assert.Equal(t, "$1,300.00", page.GetElement("totalInput").Value())
}
