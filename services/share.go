package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

const shareBaseURL = "https://wa.me/"

// BuildShareMessage renders the order summary sent to the customer
func BuildShareMessage(o models.Order, loc *time.Location) string {
	service := "Regular"
	if o.ServiceTier == models.ServiceExpress {
		service = "Express"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Halo *%s*\n", o.CustomerName)
	b.WriteString("Terima kasih telah order di *CleanRush*.\n\n")
	fmt.Fprintf(&b, "Kode: *%s*\n", o.Code)
	fmt.Fprintf(&b, "Layanan: %s\n", service)
	fmt.Fprintf(&b, "Berat: %s kg\n", utils.FormatWeight(o.WeightKg))
	if o.IroningRequested {
		b.WriteString("+ Setrika\n")
	}
	if o.StainTreatmentRequested {
		b.WriteString("+ Hilangkan noda\n")
	}
	if o.DeliveryRequested {
		b.WriteString("+ Antar\n")
	}
	fmt.Fprintf(&b, "Jadwal pickup: %s\n", utils.FormatDateTimeID(o.ScheduledPickupAt, loc))
	fmt.Fprintf(&b, "Metode bayar: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Total: *%s*\n\n", utils.FormatRupiah(o.TotalPrice))
	b.WriteString("Lacak status: buka halaman Lacak dan masukkan kode di atas.")
	return b.String()
}

// BuildShareLink returns a WhatsApp deep link pre-filled with the order
// summary. Nothing is sent; the client opens the link.
func BuildShareLink(o models.Order, loc *time.Location) string {
	return shareBaseURL + utils.DigitsOnly(o.Phone) + "?text=" + escapeShareText(BuildShareMessage(o, loc))
}

// escapeShareText query-escapes msg with spaces as %20, which every
// WhatsApp client decodes the same way
func escapeShareText(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
