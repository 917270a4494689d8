package valuation

// Recommend applies the threshold policy to the computed fair value.
// It is a pure function of the upside percentage and the configured
// thresholds.
func Recommend(fairValue, currentPrice, buyThreshold, sellThreshold float64) Recommendation {
	upside := (fairValue - currentPrice) / currentPrice

	rec := Recommendation{
		Upside:        upside,
		FairValue:     fairValue,
		CurrentPrice:  currentPrice,
		BuyThreshold:  buyThreshold,
		SellThreshold: sellThreshold,
	}

	switch {
	case upside > buyThreshold:
		rec.Action = ActionBuy
		rec.Direction = "undervalued"
	case upside < sellThreshold:
		rec.Action = ActionSell
		rec.Direction = "overvalued"
	default:
		rec.Action = ActionHold
		rec.Direction = "fairly_valued"
	}

	return rec
}
