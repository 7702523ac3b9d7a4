package ruleone

import (
	"math"
)

const (
	DefaultHorizonYears  = 10
	DefaultMinimumReturn = 15.0
	MaxDefaultGrowthRate = 50.0
	MaxDefaultPERatio    = 50.0
	// MarginOfSafetyFactor is the share of the sticker price a buyer should pay at most.
	MarginOfSafetyFactor = 0.5
)

type Recommendation string

const (
	RecommendationBuy   Recommendation = "Buy"
	RecommendationWatch Recommendation = "Watch"
	RecommendationWait  Recommendation = "Wait"
	RecommendationNA    Recommendation = "N/A"
)

type ValuationParams struct {
	LatestEPS     float64
	GrowthRate    float64
	PERatio       float64
	MinimumReturn float64
	HorizonYears  int
	CurrentPrice  float64
}

// Valuation is the sticker price computation. Prices are nil when the
// inputs cannot produce a meaningful value, for example a non-positive EPS.
type Valuation struct {
	LatestEPS           float64        `json:"latest_eps"`
	GrowthRate          float64        `json:"growth_rate"`
	PERatio             float64        `json:"pe_ratio"`
	MinimumReturn       float64        `json:"minimum_return"`
	HorizonYears        int            `json:"horizon_years"`
	FutureEPS           *float64       `json:"future_eps"`
	FuturePrice         *float64       `json:"future_price"`
	StickerPrice        *float64       `json:"sticker_price"`
	MarginOfSafetyPrice *float64       `json:"margin_of_safety_price"`
	CurrentPrice        *float64       `json:"current_price"`
	Recommendation      Recommendation `json:"recommendation"`
}

func ComputeValuation(p ValuationParams) Valuation {
	if p.HorizonYears <= 0 {
		p.HorizonYears = DefaultHorizonYears
	}

	v := Valuation{
		LatestEPS:      p.LatestEPS,
		GrowthRate:     p.GrowthRate,
		PERatio:        p.PERatio,
		MinimumReturn:  p.MinimumReturn,
		HorizonYears:   p.HorizonYears,
		Recommendation: RecommendationNA,
	}
	if p.CurrentPrice > 0 {
		price := p.CurrentPrice
		v.CurrentPrice = &price
	}

	if p.LatestEPS <= 0 || p.PERatio <= 0 || p.GrowthRate <= -100 || p.MinimumReturn <= -100 {
		return v
	}

	horizon := float64(p.HorizonYears)
	futureEPS := p.LatestEPS * math.Pow(1+p.GrowthRate/100, horizon)
	futurePrice := futureEPS * p.PERatio
	stickerPrice := futurePrice / math.Pow(1+p.MinimumReturn/100, horizon)
	if math.IsNaN(stickerPrice) || math.IsInf(stickerPrice, 0) {
		return v
	}
	mos := stickerPrice * MarginOfSafetyFactor

	v.FutureEPS = &futureEPS
	v.FuturePrice = &futurePrice
	v.StickerPrice = &stickerPrice
	v.MarginOfSafetyPrice = &mos
	v.Recommendation = Recommend(p.CurrentPrice, stickerPrice, mos)
	return v
}

// Recommend compares the current price with both thresholds. An unknown
// price yields RecommendationNA.
func Recommend(currentPrice, stickerPrice, marginOfSafetyPrice float64) Recommendation {
	switch {
	case currentPrice <= 0:
		return RecommendationNA
	case currentPrice <= marginOfSafetyPrice:
		return RecommendationBuy
	case currentPrice <= stickerPrice:
		return RecommendationWatch
	default:
		return RecommendationWait
	}
}

// ValuationInputs are the assumptions fed into ComputeValuation.
type ValuationInputs struct {
	GrowthRate    float64 `json:"growth_rate"`
	PERatio       float64 `json:"pe_ratio"`
	MinimumReturn float64 `json:"minimum_return"`
	IsDefault     bool    `json:"is_default"`
}

// DefaultValuationInputs follows the Rule One defaults: the lower of equity
// and EPS growth (sales growth when neither is known) capped to [0, 50], a
// future PE of twice the growth rate bounded by the historical PE and 50,
// and a 15% minimum return.
func DefaultValuationInputs(growth *BigFourGrowth, historicalPE float64) ValuationInputs {
	var rate *float64
	if growth != nil {
		for _, candidate := range []*float64{growth.EquityGrowth, growth.EPSGrowth} {
			if candidate != nil && (rate == nil || *candidate < *rate) {
				rate = candidate
			}
		}
		if rate == nil {
			rate = growth.SalesGrowth
		}
	}

	growthRate := 0.0
	if rate != nil {
		growthRate = math.Min(math.Max(*rate, 0), MaxDefaultGrowthRate)
	}

	pe := 2 * growthRate
	if historicalPE > 0 && (pe == 0 || historicalPE < pe) {
		pe = historicalPE
	}
	pe = math.Min(pe, MaxDefaultPERatio)

	return ValuationInputs{
		GrowthRate:    growthRate,
		PERatio:       pe,
		MinimumReturn: DefaultMinimumReturn,
		IsDefault:     true,
	}
}
