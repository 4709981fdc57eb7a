package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildOrdersWorkbook(t *testing.T) {
	orders := sampleOrders()

	f, err := BuildOrdersWorkbook(orders, time.UTC)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows(OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(orders)+1)

	assert.Equal(t, "Kode", rows[0][0])
	assert.Equal(t, "Status", rows[0][10])

	assert.Equal(t, "CR250101-BBBB", rows[1][0])
	assert.Equal(t, "Sari", rows[1][1])
	assert.Equal(t, "express", rows[1][3])
	assert.Equal(t, "2.5", rows[1][4])
	assert.Equal(t, "Ya", rows[1][5])
	assert.Equal(t, "33750", rows[1][9])
	assert.Equal(t, "Dicuci", rows[1][10])
	assert.Equal(t, "1/1/2025, 10.00.00", rows[1][11])

	assert.Equal(t, "CR250101-AAAA", rows[2][0])
	assert.Equal(t, "Diterima", rows[2][10])
}

func TestBuildOrdersWorkbook_Empty(t *testing.T) {
	f, err := BuildOrdersWorkbook(nil, time.UTC)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "only the header row")
}
