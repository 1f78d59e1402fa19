package core

// PowerHeuristic combines two sampling strategies' PDFs for multiple
// importance sampling using Veach's power heuristic with exponent 2, which
// has lower variance than the balance heuristic in the common case of one
// strategy being much better suited to a region than the other.
func PowerHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return (f * f) / denom
}

// BalanceHeuristic combines two sampling strategies' PDFs using the simpler,
// higher-variance balance heuristic. Kept alongside PowerHeuristic for
// comparison in tests and for strategies where the power heuristic's extra
// variance reduction isn't worth its bias toward the dominant technique.
func BalanceHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	denom := f + g
	if denom == 0 {
		return 0
	}
	return f / denom
}
