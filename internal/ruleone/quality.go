package ruleone

import (
	"context"
	"math"

	"rule-one/internal/model"
	"rule-one/pkg/logger"
)

const (
	growthPointsEach    = 15.0
	roicPoints          = 25.0
	debtPoints          = 15.0
	roicTarget          = 10.0
	debtPayoffTarget    = 3.0
	maximumQualityScore = 100
)

// ComputeQualityScore rates a company from 0 to 100. Each Big Four rate
// earns up to 15 points linearly up to 10%, ROIC up to 25 points linearly up
// to 10%, and debt payoff up to 15 points, full at three years or less.
// Unknown inputs earn nothing, so improving any input never lowers the
// score. isExcellent requires all four growth rates at or above 10%.
func ComputeQualityScore(growth *BigFourGrowth, roic *float64, debtPayoffYears *float64) (int, bool) {
	points := 0.0
	isExcellent := growth != nil

	for _, rate := range growth.Rates() {
		if rate == nil {
			isExcellent = false
			continue
		}
		if *rate < ExcellentGrowth {
			isExcellent = false
		}
		points += growthPointsEach * ratio(*rate, ExcellentGrowth)
	}

	if roic != nil {
		points += roicPoints * ratio(*roic, roicTarget)
	}

	if debtPayoffYears != nil {
		if *debtPayoffYears <= debtPayoffTarget {
			points += debtPoints
		} else {
			points += debtPoints * debtPayoffTarget / *debtPayoffYears
		}
	}

	score := int(math.Round(points))
	if score > maximumQualityScore {
		score = maximumQualityScore
	}
	return score, isExcellent
}

// ratio maps value onto [0, 1] relative to target.
func ratio(value, target float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Min(value/target, 1)
}

// Quality is the full Rule One assessment of one company.
type Quality struct {
	Growth          *BigFourGrowth  `json:"growth"`
	ROIC            ROICSummary     `json:"roic"`
	DebtPayoffYears *float64        `json:"debt_payoff_years"`
	Inputs          ValuationInputs `json:"valuation_inputs"`
	Valuation       Valuation       `json:"valuation"`
	QualityScore    int             `json:"quality_score"`
	IsExcellent     bool            `json:"is_excellent"`
}

type QualityParams struct {
	Records      []model.FinancialMetric
	Inputs       *ValuationInputs
	CurrentPrice float64
	HistoricalPE float64
	HorizonYears int
}

// BuildQuality runs every calculation over a stock's yearly records. When
// Inputs is nil the defaults derived from the growth rates are used.
func BuildQuality(ctx context.Context, log *logger.Logger, p QualityParams) Quality {
	growth := ComputeBigFourGrowth(ctx, log, p.Records)
	roic := ComputeROIC(p.Records)
	debtPayoff := LatestDebtPayoffYears(p.Records)

	inputs := DefaultValuationInputs(growth, p.HistoricalPE)
	if p.Inputs != nil {
		inputs = *p.Inputs
	}

	latestEPS := 0.0
	if eps := LatestEPS(p.Records); eps != nil {
		latestEPS = *eps
	}
	if latestEPS <= 0 {
		log.WarnContext(ctx, "Latest EPS is not positive, sticker price unavailable",
			logger.FloatField("latest_eps", latestEPS))
	}

	valuation := ComputeValuation(ValuationParams{
		LatestEPS:     latestEPS,
		GrowthRate:    inputs.GrowthRate,
		PERatio:       inputs.PERatio,
		MinimumReturn: inputs.MinimumReturn,
		HorizonYears:  p.HorizonYears,
		CurrentPrice:  p.CurrentPrice,
	})

	score, isExcellent := ComputeQualityScore(growth, roic.Latest, debtPayoff)

	return Quality{
		Growth:          growth,
		ROIC:            roic,
		DebtPayoffYears: debtPayoff,
		Inputs:          inputs,
		Valuation:       valuation,
		QualityScore:    score,
		IsExcellent:     isExcellent,
	}
}
