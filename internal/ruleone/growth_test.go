package ruleone

import (
	"context"
	"math"
	"testing"

	"rule-one/internal/model"
	"rule-one/pkg/logger"
	"rule-one/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(year int, revenue, eps, bookValue, fcf *float64) model.FinancialMetric {
	return model.FinancialMetric{
		Year:         year,
		Revenue:      revenue,
		EPS:          eps,
		BookValue:    bookValue,
		FreeCashFlow: fcf,
	}
}

func f(v float64) *float64 {
	return utils.ToPointer(v)
}

func TestComputeCAGR(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		end     float64
		years   float64
		want    *float64
		wantNil bool
	}{
		{name: "doubling over nine years", start: 100, end: 200, years: 9, want: f((math.Pow(2, 1.0/9) - 1) * 100)},
		{name: "flat", start: 50, end: 50, years: 5, want: f(0)},
		{name: "decline", start: 200, end: 100, years: 1, want: f(-50)},
		{name: "zero start", start: 0, end: 100, years: 5, wantNil: true},
		{name: "negative end", start: 10, end: -5, years: 5, wantNil: true},
		{name: "span shorter than a year", start: 10, end: 20, years: 0, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCAGR(tt.start, tt.end, tt.years)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestComputeCAGR_Monotonic(t *testing.T) {
	for years := 1.0; years <= 10; years++ {
		prev := math.Inf(-1)
		for end := 1.0; end <= 500; end += 7 {
			got := ComputeCAGR(100, end, years)
			require.NotNil(t, got)
			assert.GreaterOrEqual(t, *got, prev, "CAGR must increase with end value")
			prev = *got
		}

		prev = math.Inf(1)
		for start := 1.0; start <= 500; start += 7 {
			got := ComputeCAGR(start, 100, years)
			require.NotNil(t, got)
			assert.LessOrEqual(t, *got, prev, "CAGR must decrease with start value")
			prev = *got
		}
	}
}

func TestComputeBigFourGrowth_Scenario(t *testing.T) {
	records := []model.FinancialMetric{
		record(2015, f(100), f(1), f(50), f(10)),
		record(2024, f(200), f(2), f(100), f(20)),
	}
	want := (math.Pow(2, 1.0/9) - 1) * 100

	got := ComputeBigFourGrowth(context.Background(), logger.NewNop(), records)
	require.NotNil(t, got)

	for _, rate := range got.Rates() {
		require.NotNil(t, rate)
		assert.InDelta(t, want, *rate, 1e-9)
		assert.InDelta(t, 8.01, *rate, 0.01)
	}
	assert.Equal(t, 2, got.YearsOfData)
	assert.NotEmpty(t, got.Warnings, "short history must be reported")
}

func TestComputeBigFourGrowth_InsufficientData(t *testing.T) {
	log := logger.NewNop()
	ctx := context.Background()

	assert.Nil(t, ComputeBigFourGrowth(ctx, log, nil))
	assert.Nil(t, ComputeBigFourGrowth(ctx, log, []model.FinancialMetric{}))
	assert.Nil(t, ComputeBigFourGrowth(ctx, log, []model.FinancialMetric{
		record(2024, f(100), f(1), f(50), f(10)),
	}))
}

func TestComputeBigFourGrowth_SortsInternally(t *testing.T) {
	ascending := []model.FinancialMetric{
		record(2020, f(100), f(1), f(50), f(10)),
		record(2022, f(150), f(1.5), f(60), f(12)),
		record(2024, f(300), f(3), f(80), f(30)),
	}
	descending := []model.FinancialMetric{ascending[2], ascending[0], ascending[1]}

	log := logger.NewNop()
	a := ComputeBigFourGrowth(context.Background(), log, ascending)
	d := ComputeBigFourGrowth(context.Background(), log, descending)

	assert.Equal(t, a.Rates(), d.Rates())
	assert.Equal(t, 2020, descending[1].Year, "input slice must not be reordered")
}

func TestComputeBigFourGrowth_NullAndNonPositiveEndpoints(t *testing.T) {
	records := []model.FinancialMetric{
		record(2018, f(-10), nil, f(0), f(10)),
		record(2019, f(50), f(1), f(40), nil),
		record(2022, f(80), f(1.331), nil, nil),
	}

	got := ComputeBigFourGrowth(context.Background(), logger.NewNop(), records)
	require.NotNil(t, got)

	assert.Nil(t, got.SalesGrowth, "first revenue is negative")
	assert.Nil(t, got.EquityGrowth, "first book value is zero")
	assert.Nil(t, got.FCFGrowth, "only one free cash flow value")

	require.NotNil(t, got.EPSGrowth)
	assert.InDelta(t, 10.0, *got.EPSGrowth, 1e-6, "span uses the series' own years 2019-2022")
}

func TestComputeBigFourGrowth_Clamp(t *testing.T) {
	records := []model.FinancialMetric{
		record(2023, f(1), f(1), f(100), f(100)),
		record(2024, f(1000), f(2), f(40), f(350)),
	}

	got := ComputeBigFourGrowth(context.Background(), logger.NewNop(), records)
	require.NotNil(t, got)

	require.NotNil(t, got.SalesGrowth)
	assert.Equal(t, GrowthClampCeiling, *got.SalesGrowth)

	require.NotNil(t, got.FCFGrowth)
	assert.Equal(t, GrowthClampCeiling, *got.FCFGrowth, "250% is above the ceiling")

	require.NotNil(t, got.EPSGrowth)
	assert.InDelta(t, 100.0, *got.EPSGrowth, 1e-9)

	require.NotNil(t, got.EquityGrowth)
	assert.InDelta(t, -60.0, *got.EquityGrowth, 1e-9, "declines within the ceiling are reported raw")

	assert.Len(t, got.Warnings, 3, "short history plus two clamps")
}

func TestComputeBigFourGrowth_FullHistoryHasNoWarnings(t *testing.T) {
	var records []model.FinancialMetric
	value := 100.0
	for year := 2015; year <= 2024; year++ {
		records = append(records, record(year, f(value), f(value/100), f(value/2), f(value/10)))
		value *= 1.12
	}

	got := ComputeBigFourGrowth(context.Background(), logger.NewNop(), records)
	require.NotNil(t, got)
	assert.Empty(t, got.Warnings)
	for _, rate := range got.Rates() {
		require.NotNil(t, rate)
		assert.InDelta(t, 12.0, *rate, 1e-6)
	}
}
