package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuaderno/internal/model"
	"cuaderno/internal/store"
)

func TestCreateCropRequiresKnownParcel(t *testing.T) {
	s := store.NewMemoryStore()
	env := newTestEnv(s, false)
	ctx := context.Background()

	_, err := env.crops.Create(ctx, CropRequest{ParcelID: "p-x", Name: "Trigo"})
	assert.ErrorIs(t, err, ErrParcelNotFound)
	assert.Empty(t, s.Calls())

	parcel, err := env.parcels.Create(ctx, ParcelRequest{Name: "Secano", Area: 4})
	require.NoError(t, err)
	crop, err := env.crops.Create(ctx, CropRequest{ParcelID: parcel.Item.ID, Name: "Trigo", CultivatedArea: 3})
	require.NoError(t, err)
	assert.Equal(t, parcel.Item.ID, crop.Item.ParcelID)
	assert.Len(t, env.crops.List(parcel.Item.ID), 1)
	assert.Empty(t, env.crops.List("other"))
}

func TestInvoiceTotalStoredInCents(t *testing.T) {
	s := store.NewMemoryStore()
	env := newTestEnv(s, false)

	res, err := env.invoices.Create(context.Background(), InvoiceRequest{
		Number:       "2024/2",
		Date:         "2024-04-02",
		Type:         model.InvoiceTypeIssued,
		Counterparty: "Almazara",
		TaxableBase:  decimal.RequireFromString("33.33"),
	})
	require.NoError(t, err)
	assert.True(t, res.Item.Total.Equal(decimal.RequireFromString("40.33")), res.Item.Total.String())

	rows := s.Rows(model.TableInvoices)
	require.Len(t, rows, 1)
	assert.Equal(t, "40.33", rows[0]["total_factura"])
}

func TestInvoiceTotalIsRecomputed(t *testing.T) {
	s := store.NewMemoryStore()
	env := newTestEnv(s, false)
	ctx := context.Background()

	res, err := env.invoices.Create(ctx, InvoiceRequest{
		Number:       "2024/1",
		Date:         "2024-04-01",
		Type:         model.InvoiceTypeIssued,
		Counterparty: "Almazara",
		TaxableBase:  decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	assert.True(t, res.Item.VATRate.Equal(model.DefaultVATRate))
	assert.True(t, res.Item.Total.Equal(decimal.RequireFromString("242")))

	rate := decimal.RequireFromString("10")
	upd, err := env.invoices.Update(ctx, res.Item.ID, InvoiceRequest{
		Number:       "2024/1",
		Date:         "2024-04-01",
		Type:         model.InvoiceTypeIssued,
		Counterparty: "Almazara",
		TaxableBase:  decimal.RequireFromString("300"),
		VATRate:      &rate,
		Paid:         true,
	})
	require.NoError(t, err)
	assert.True(t, upd.Item.Total.Equal(decimal.RequireFromString("330")))

	got, err := env.invoices.Get(res.Item.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Len(t, env.invoices.List(model.InvoiceTypeReceived), 0)
}

func TestTaskDefaultsAndOptionalReferences(t *testing.T) {
	s := store.NewMemoryStore()
	env := newTestEnv(s, false)

	res, err := env.tasks.Create(context.Background(), TaskRequest{
		ScheduledDate: "2024-02-01",
		Description:   "Tratamiento",
		CropID:        "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, res.Item.Status)
	assert.Nil(t, res.Item.ParcelID)
	require.NotNil(t, res.Item.CropID)
	assert.Nil(t, res.Item.CompletedDate)

	row := s.Rows(model.TableTasks)[0]
	assert.Nil(t, row["parcela_id"])
	assert.Equal(t, "c-1", row["cultivo_id"])
}

func TestServiceEchoGapKeepsLocalRecord(t *testing.T) {
	s := store.NewMemoryStore()
	s.HideReads(model.TableParcels)
	env := newTestEnv(s, false)

	res, err := env.parcels.Create(context.Background(), ParcelRequest{Name: "Regadío", Location: "Ebro", Area: 2})
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
	assert.NotEmpty(t, res.Warning)

	all := env.parcels.List()
	require.Len(t, all, 1)
	assert.Equal(t, model.Parcel{ID: all[0].ID, Name: "Regadío", Location: "Ebro", Area: 2}, all[0])
	assert.NotEmpty(t, all[0].ID)
}

func TestUpdateUnknownRecord(t *testing.T) {
	env := newTestEnv(store.NewMemoryStore(), false)
	ctx := context.Background()

	_, err := env.parcels.Update(ctx, "nope", ParcelRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.tasks.Update(ctx, "nope", TaskRequest{Description: "x", ScheduledDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.invoices.Delete(ctx, "nope"), ErrNotFound)
}
