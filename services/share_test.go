package services

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

func shareTestOrder() models.Order {
	return models.Order{
		Code:              "CR250817-ABCD",
		CustomerName:      "Budi",
		Phone:             "+62 812-3456-7890",
		ServiceTier:       models.ServiceExpress,
		WeightKg:          2.5,
		IroningRequested:  true,
		DeliveryRequested: true,
		ScheduledPickupAt: time.Date(2025, 8, 17, 7, 30, 0, 0, time.UTC),
		PaymentMethod:     models.PaymentTransfer,
		TotalPrice:        43750,
	}
}

func TestBuildShareMessage(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	msg := BuildShareMessage(shareTestOrder(), jakarta)

	assert.True(t, strings.HasPrefix(msg, "Halo *Budi*\n"))
	assert.Contains(t, msg, "Kode: *CR250817-ABCD*\n")
	assert.Contains(t, msg, "Layanan: Express\n")
	assert.Contains(t, msg, "Berat: 2.5 kg\n")
	assert.Contains(t, msg, "+ Setrika\n")
	assert.NotContains(t, msg, "+ Hilangkan noda")
	assert.Contains(t, msg, "+ Antar\n")
	assert.Contains(t, msg, "Jadwal pickup: 17/8/2025, 14.30.00\n")
	assert.Contains(t, msg, "Metode bayar: transfer\n")
	assert.Contains(t, msg, "Total: *Rp 43.750*\n")
	assert.True(t, strings.HasSuffix(msg, "masukkan kode di atas."))
}

func TestBuildShareMessage_RegularWithoutAddOns(t *testing.T) {
	o := shareTestOrder()
	o.ServiceTier = models.ServiceRegular
	o.IroningRequested = false
	o.DeliveryRequested = false

	msg := BuildShareMessage(o, nil)
	assert.Contains(t, msg, "Layanan: Regular\n")
	assert.NotContains(t, msg, "+ ")
}

func TestBuildShareLink(t *testing.T) {
	o := shareTestOrder()
	link := BuildShareLink(o, time.UTC)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/6281234567890", u.Path)
	assert.Equal(t, BuildShareMessage(o, time.UTC), u.Query().Get("text"))
}

func TestBuildShareLink_EncodesSpacesAsPercent20(t *testing.T) {
	link := BuildShareLink(shareTestOrder(), time.UTC)
	text := link[strings.Index(link, "?text=")+len("?text="):]

	assert.NotContains(t, text, "+")
	assert.Contains(t, text, "Terima%20kasih")
	assert.Contains(t, text, "Rp%2043.750")
	// Literal plus signs in the message survive as %2B
	assert.Contains(t, text, "%2B%20Setrika")
}
