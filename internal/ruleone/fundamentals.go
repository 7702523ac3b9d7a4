package ruleone

import (
	"rule-one/internal/model"
)

// ROICSummary reports the most recent return on invested capital and the
// average over every year it could be determined, both in percent.
type ROICSummary struct {
	Latest  *float64 `json:"latest"`
	Average *float64 `json:"average"`
	Years   int      `json:"years"`
}

// yearROIC uses the provider figure when present, otherwise net earnings
// over equity plus debt.
func yearROIC(r model.FinancialMetric) *float64 {
	if r.ROIC != nil {
		return r.ROIC
	}
	if r.NetEarnings == nil || r.BookValue == nil {
		return nil
	}
	capital := *r.BookValue
	if r.TotalDebt != nil {
		capital += *r.TotalDebt
	}
	if capital <= 0 {
		return nil
	}
	roic := *r.NetEarnings / capital * 100
	return &roic
}

func ComputeROIC(records []model.FinancialMetric) ROICSummary {
	var (
		summary ROICSummary
		sum     float64
	)
	for _, r := range SortByYear(records) {
		roic := yearROIC(r)
		if roic == nil {
			continue
		}
		latest := *roic
		summary.Latest = &latest
		sum += *roic
		summary.Years++
	}
	if summary.Years > 0 {
		avg := sum / float64(summary.Years)
		summary.Average = &avg
	}
	return summary
}

// ComputeDebtPayoffYears is the number of years of free cash flow needed to
// retire total debt. Zero when there is no debt, nil when free cash flow is
// unknown or not positive.
func ComputeDebtPayoffYears(totalDebt, freeCashFlow *float64) *float64 {
	if totalDebt == nil {
		return nil
	}
	if *totalDebt <= 0 {
		zero := 0.0
		return &zero
	}
	if freeCashFlow == nil || *freeCashFlow <= 0 {
		return nil
	}
	years := *totalDebt / *freeCashFlow
	return &years
}

// Latest returns the most recent non-null value picked from records.
func Latest(records []model.FinancialMetric, pick func(model.FinancialMetric) *float64) *float64 {
	sorted := SortByYear(records)
	for i := len(sorted) - 1; i >= 0; i-- {
		if v := pick(sorted[i]); v != nil {
			value := *v
			return &value
		}
	}
	return nil
}

func LatestEPS(records []model.FinancialMetric) *float64 {
	return Latest(records, func(r model.FinancialMetric) *float64 { return r.EPS })
}

// LatestDebtPayoffYears uses the latest reported debt and free cash flow.
func LatestDebtPayoffYears(records []model.FinancialMetric) *float64 {
	debt := Latest(records, func(r model.FinancialMetric) *float64 { return r.TotalDebt })
	fcf := Latest(records, func(r model.FinancialMetric) *float64 { return r.FreeCashFlow })
	return ComputeDebtPayoffYears(debt, fcf)
}
