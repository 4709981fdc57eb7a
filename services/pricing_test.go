package services

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

func TestCalculatePrice(t *testing.T) {
	prices := DefaultPriceTable()

	tests := []struct {
		name  string
		input PriceInput
		want  int64
	}{
		{
			name:  "3kg regular no add-ons",
			input: PriceInput{WeightKg: 3, ServiceTier: models.ServiceRegular},
			want:  21000,
		},
		{
			name: "3kg express with ironing and delivery",
			input: PriceInput{
				WeightKg:          3,
				ServiceTier:       models.ServiceExpress,
				IroningRequested:  true,
				DeliveryRequested: true,
			},
			want: 31500 + 9000 + 10000,
		},
		{
			name:  "express multiplies base only",
			input: PriceInput{WeightKg: 2, ServiceTier: models.ServiceExpress, StainTreatmentRequested: true},
			want:  21000 + 5000,
		},
		{
			name:  "fractional weight",
			input: PriceInput{WeightKg: 2.5, ServiceTier: models.ServiceRegular, IroningRequested: true},
			want:  17500 + 7500,
		},
		{
			name:  "zero weight still charges flat fees",
			input: PriceInput{WeightKg: 0, StainTreatmentRequested: true, DeliveryRequested: true},
			want:  15000,
		},
		{
			name:  "negative weight coerced to zero",
			input: PriceInput{WeightKg: -4, ServiceTier: models.ServiceExpress},
			want:  0,
		},
		{
			name:  "NaN weight coerced to zero",
			input: PriceInput{WeightKg: math.NaN(), DeliveryRequested: true},
			want:  10000,
		},
		{
			name:  "empty tier prices as regular",
			input: PriceInput{WeightKg: 1},
			want:  7000,
		},
		{
			name:  "rounds to whole rupiah",
			input: PriceInput{WeightKg: 0.1234, ServiceTier: models.ServiceRegular},
			want:  864,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prices.CalculatePrice(tt.input))
		})
	}
}

func TestCalculatePrice_RegularIsBaseTimesWeight(t *testing.T) {
	prices := DefaultPriceTable()
	for _, w := range []float64{0, 0.5, 1, 3, 7.25, 12} {
		got := prices.CalculatePrice(PriceInput{WeightKg: w, ServiceTier: models.ServiceRegular})
		assert.Equal(t, int64(math.Round(7000*w)), got, "weight %v", w)
	}
}

func TestCalculatePrice_AddOnsAreAdditive(t *testing.T) {
	prices := DefaultPriceTable()
	const kg = 4.0

	for _, tier := range []models.ServiceTier{models.ServiceRegular, models.ServiceExpress} {
		base := prices.CalculatePrice(PriceInput{WeightKg: kg, ServiceTier: tier})
		contributions := map[string]int64{
			"ironing":  prices.CalculatePrice(PriceInput{WeightKg: kg, ServiceTier: tier, IroningRequested: true}) - base,
			"stain":    prices.CalculatePrice(PriceInput{WeightKg: kg, ServiceTier: tier, StainTreatmentRequested: true}) - base,
			"delivery": prices.CalculatePrice(PriceInput{WeightKg: kg, ServiceTier: tier, DeliveryRequested: true}) - base,
		}
		assert.Equal(t, int64(12000), contributions["ironing"])
		assert.Equal(t, int64(5000), contributions["stain"])
		assert.Equal(t, int64(10000), contributions["delivery"])

		for mask := 0; mask < 8; mask++ {
			in := PriceInput{
				WeightKg:                kg,
				ServiceTier:             tier,
				IroningRequested:        mask&1 != 0,
				StainTreatmentRequested: mask&2 != 0,
				DeliveryRequested:       mask&4 != 0,
			}
			want := base
			if in.IroningRequested {
				want += contributions["ironing"]
			}
			if in.StainTreatmentRequested {
				want += contributions["stain"]
			}
			if in.DeliveryRequested {
				want += contributions["delivery"]
			}
			assert.Equal(t, want, prices.CalculatePrice(in), "tier %s mask %03b", tier, mask)
		}
	}
}

func TestBreakdown(t *testing.T) {
	b := DefaultPriceTable().Breakdown(PriceInput{
		WeightKg:                3,
		ServiceTier:             models.ServiceExpress,
		IroningRequested:        true,
		StainTreatmentRequested: true,
	})

	assert.Equal(t, 3.0, b.WeightKg)
	assert.Equal(t, int64(31500), b.Base)
	assert.Equal(t, int64(9000), b.Ironing)
	assert.Equal(t, int64(5000), b.Stain)
	assert.Equal(t, int64(0), b.Delivery)
	assert.Equal(t, int64(45500), b.Total)
}

func TestBreakdown_HeavyLoadsArePricedAtTheCap(t *testing.T) {
	prices := DefaultPriceTable()
	capped := prices.Breakdown(PriceInput{WeightKg: utils.MaxWeightKg, ServiceTier: models.ServiceExpress, IroningRequested: true})

	for _, w := range []float64{1001, 1e16, 2e18, math.MaxFloat64} {
		b := prices.Breakdown(PriceInput{WeightKg: w, ServiceTier: models.ServiceExpress, IroningRequested: true})
		assert.Equal(t, capped, b, "weight %g", w)
		assert.Positive(t, b.Total)
	}
	assert.Equal(t, float64(utils.MaxWeightKg), capped.WeightKg)
	assert.Equal(t, int64(13500000), capped.Total)
}

func TestPriceTableFromConfig(t *testing.T) {
	table, err := PriceTableFromConfig(appConfig.PriceConfig{
		BasePerKg:         "8000",
		ExpressMultiplier: "2",
		IroningPerKg:      "2500",
		StainFlat:         "4000",
		DeliveryFlat:      "0",
	})
	require.NoError(t, err)
	assert.True(t, table.BasePerKg.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, int64(32000), table.CalculatePrice(PriceInput{WeightKg: 2, ServiceTier: models.ServiceExpress}))

	_, err = PriceTableFromConfig(appConfig.PriceConfig{
		BasePerKg: "tujuh ribu", ExpressMultiplier: "1.5", IroningPerKg: "1", StainFlat: "1", DeliveryFlat: "1",
	})
	assert.ErrorContains(t, err, "PRICE_BASE_PER_KG")

	_, err = PriceTableFromConfig(appConfig.PriceConfig{
		BasePerKg: "7000", ExpressMultiplier: "1.5", IroningPerKg: "1", StainFlat: "-1", DeliveryFlat: "1",
	})
	assert.ErrorContains(t, err, "PRICE_STAIN_FLAT")
}
