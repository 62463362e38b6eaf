package risk

// BaseQuantity converts capital and leverage into units of the instrument at
// the given reference price (the first trading candle's close).
func BaseQuantity(capital, leverage, refPrice float64) float64 {
	if refPrice <= 0 {
		return 0
	}
	return capital * leverage / refPrice
}

// StepQuantities splits the base quantity across the three pyramid steps.
// aligned selects the proportion vector; opposing breakouts additionally
// carry the OpposingMultiplier.
func (p Policy) StepQuantities(baseQty float64, aligned bool) [3]float64 {
	props := p.AlignedProportions
	qty := baseQty
	if !aligned {
		props = p.OpposedProportions
		qty = baseQty * p.OpposingMultiplier
	}

	var out [3]float64
	for i, prop := range props {
		out[i] = qty * prop
	}
	return out
}
