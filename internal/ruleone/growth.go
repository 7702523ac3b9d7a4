package ruleone

import (
	"context"
	"fmt"
	"math"
	"sort"

	"rule-one/internal/model"
	"rule-one/pkg/logger"
)

const (
	// GrowthClampCeiling bounds every reported growth rate, in percent.
	GrowthClampCeiling = 200.0
	// RecommendedYears is the history length the methodology asks for.
	RecommendedYears = 10
	// ExcellentGrowth is the minimum rate each Big Four metric needs for an excellent rating.
	ExcellentGrowth = 10.0
)

// BigFourGrowth holds the compound annual growth rates, in percent, of the
// four Rule One metrics. A nil rate means the data could not support one.
type BigFourGrowth struct {
	SalesGrowth  *float64 `json:"sales_growth"`
	EPSGrowth    *float64 `json:"eps_growth"`
	EquityGrowth *float64 `json:"equity_growth"`
	FCFGrowth    *float64 `json:"fcf_growth"`
	YearsOfData  int      `json:"years_of_data"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Rates returns the four rates in a fixed order: sales, EPS, equity, FCF.
func (g *BigFourGrowth) Rates() []*float64 {
	if g == nil {
		return []*float64{nil, nil, nil, nil}
	}
	return []*float64{g.SalesGrowth, g.EPSGrowth, g.EquityGrowth, g.FCFGrowth}
}

// ComputeCAGR returns ((end/start)^(1/years) - 1) * 100, or nil when either
// endpoint is not strictly positive or the span is shorter than a year.
func ComputeCAGR(start, end, years float64) *float64 {
	if start <= 0 || end <= 0 || years < 1 {
		return nil
	}
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil
	}
	cagr := (math.Pow(end/start, 1/years) - 1) * 100
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return nil
	}
	return &cagr
}

// SortByYear returns a copy of records in ascending year order.
func SortByYear(records []model.FinancialMetric) []model.FinancialMetric {
	sorted := make([]model.FinancialMetric, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})
	return sorted
}

type seriesPoint struct {
	year  int
	value float64
}

// seriesEndpoints finds the first and last non-null value of a series.
// Records must already be sorted by year.
func seriesEndpoints(records []model.FinancialMetric, pick func(model.FinancialMetric) *float64) (seriesPoint, seriesPoint, bool) {
	var (
		first, last seriesPoint
		found       bool
	)
	for _, r := range records {
		v := pick(r)
		if v == nil {
			continue
		}
		if !found {
			first = seriesPoint{year: r.Year, value: *v}
			found = true
		}
		last = seriesPoint{year: r.Year, value: *v}
	}
	return first, last, found
}

// ComputeBigFourGrowth derives the Big Four growth rates from yearly records.
// Records are sorted internally; the span of each series is the distance
// between the years of its own first and last non-null values. Rates beyond
// GrowthClampCeiling are clamped with the sign preserved and logged. It
// returns nil when fewer than two records are available.
func ComputeBigFourGrowth(ctx context.Context, log *logger.Logger, records []model.FinancialMetric) *BigFourGrowth {
	if len(records) < 2 {
		log.WarnContext(ctx, "Insufficient financial history to compute growth",
			logger.IntField("years_of_data", len(records)))
		return nil
	}

	sorted := SortByYear(records)
	result := &BigFourGrowth{YearsOfData: len(sorted)}

	if len(sorted) < RecommendedYears {
		msg := fmt.Sprintf("only %d years of data available, %d recommended", len(sorted), RecommendedYears)
		result.Warnings = append(result.Warnings, msg)
		log.WarnContext(ctx, "Financial history shorter than recommended",
			logger.IntField("years_of_data", len(sorted)),
			logger.IntField("recommended_years", RecommendedYears))
	}

	series := []struct {
		name   string
		pick   func(model.FinancialMetric) *float64
		target **float64
	}{
		{name: "sales_growth", pick: func(r model.FinancialMetric) *float64 { return r.Revenue }, target: &result.SalesGrowth},
		{name: "eps_growth", pick: func(r model.FinancialMetric) *float64 { return r.EPS }, target: &result.EPSGrowth},
		{name: "equity_growth", pick: func(r model.FinancialMetric) *float64 { return r.BookValue }, target: &result.EquityGrowth},
		{name: "fcf_growth", pick: func(r model.FinancialMetric) *float64 { return r.FreeCashFlow }, target: &result.FCFGrowth},
	}

	for _, s := range series {
		first, last, ok := seriesEndpoints(sorted, s.pick)
		if !ok {
			continue
		}
		cagr := ComputeCAGR(first.value, last.value, float64(last.year-first.year))
		if cagr == nil {
			continue
		}
		if math.Abs(*cagr) > GrowthClampCeiling {
			clamped := math.Copysign(GrowthClampCeiling, *cagr)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s clamped from %.2f%% to %.0f%%", s.name, *cagr, clamped))
			log.WarnContext(ctx, "Extreme growth rate clamped",
				logger.StringField("metric", s.name),
				logger.FloatField("raw", *cagr),
				logger.FloatField("clamped", clamped))
			cagr = &clamped
		}
		*s.target = cagr
	}

	return result
}
