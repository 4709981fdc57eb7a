package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

// PriceTable is the laundry tariff in whole rupiah
type PriceTable struct {
	BasePerKg         decimal.Decimal `json:"basePerKg"`
	ExpressMultiplier decimal.Decimal `json:"expressMultiplier"`
	IroningPerKg      decimal.Decimal `json:"ironingPerKg"`
	StainFlat         decimal.Decimal `json:"stainFlat"`
	DeliveryFlat      decimal.Decimal `json:"deliveryFlat"`
}

// DefaultPriceTable returns the standard CleanRush tariff
func DefaultPriceTable() PriceTable {
	return PriceTable{
		BasePerKg:         decimal.NewFromInt(7000),
		ExpressMultiplier: decimal.RequireFromString("1.5"),
		IroningPerKg:      decimal.NewFromInt(3000),
		StainFlat:         decimal.NewFromInt(5000),
		DeliveryFlat:      decimal.NewFromInt(10000),
	}
}

// PriceTableFromConfig parses the configured tariff
func PriceTableFromConfig(cfg appConfig.PriceConfig) (PriceTable, error) {
	var (
		table PriceTable
		err   error
	)
	parse := func(name, value string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		d, perr := decimal.NewFromString(value)
		if perr != nil {
			err = fmt.Errorf("invalid %s %q: %w", name, value, perr)
			return decimal.Zero
		}
		if d.IsNegative() {
			err = fmt.Errorf("%s must not be negative", name)
		}
		return d
	}

	table.BasePerKg = parse("PRICE_BASE_PER_KG", cfg.BasePerKg)
	table.ExpressMultiplier = parse("PRICE_EXPRESS_MULTIPLIER", cfg.ExpressMultiplier)
	table.IroningPerKg = parse("PRICE_IRONING_PER_KG", cfg.IroningPerKg)
	table.StainFlat = parse("PRICE_STAIN_FLAT", cfg.StainFlat)
	table.DeliveryFlat = parse("PRICE_DELIVERY_FLAT", cfg.DeliveryFlat)
	if err != nil {
		return PriceTable{}, err
	}
	return table, nil
}

// PriceInput is the subset of an order form that drives the price
type PriceInput struct {
	WeightKg                float64            `json:"weightKg"`
	ServiceTier             models.ServiceTier `json:"serviceTier"`
	IroningRequested        bool               `json:"ironingRequested"`
	StainTreatmentRequested bool               `json:"stainTreatmentRequested"`
	DeliveryRequested       bool               `json:"deliveryRequested"`
}

// PriceBreakdown lists every priced line of an order summary
type PriceBreakdown struct {
	WeightKg float64 `json:"weightKg"`
	Base     int64   `json:"base"` // after the express multiplier
	Ironing  int64   `json:"ironing"`
	Stain    int64   `json:"stain"`
	Delivery int64   `json:"delivery"`
	Total    int64   `json:"total"`
}

// Breakdown prices every line of the input. Lines are kept exact and only
// the total is rounded to whole rupiah. Weights above utils.MaxWeightKg are
// priced at the cap so the total always fits in an int64.
func (p PriceTable) Breakdown(in PriceInput) PriceBreakdown {
	kg := decimal.NewFromFloat(utils.ClampWeight(in.WeightKg))

	base := p.BasePerKg.Mul(kg)
	if in.ServiceTier == models.ServiceExpress {
		base = base.Mul(p.ExpressMultiplier)
	}

	ironing := decimal.Zero
	if in.IroningRequested {
		ironing = p.IroningPerKg.Mul(kg)
	}
	stain := decimal.Zero
	if in.StainTreatmentRequested {
		stain = p.StainFlat
	}
	delivery := decimal.Zero
	if in.DeliveryRequested {
		delivery = p.DeliveryFlat
	}

	total := base.Add(ironing).Add(stain).Add(delivery)

	return PriceBreakdown{
		WeightKg: kg.InexactFloat64(),
		Base:     base.Round(0).IntPart(),
		Ironing:  ironing.Round(0).IntPart(),
		Stain:    stain.Round(0).IntPart(),
		Delivery: delivery.Round(0).IntPart(),
		Total:    total.Round(0).IntPart(),
	}
}

// CalculatePrice returns the order total in whole rupiah
func (p PriceTable) CalculatePrice(in PriceInput) int64 {
	return p.Breakdown(in).Total
}
