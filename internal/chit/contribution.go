package chit

// DefaultMarkupPercent is the model B contribution markup applied when no
// override is configured.
const DefaultMarkupPercent = 20

// MonthlyContribution derives the per-cycle contribution at group creation
// time. Model A divides the chit amount evenly across the duration; model B
// first marks the pool up by markupPercent. The result is rounded half-up
// to the nearest minor unit.
func MonthlyContribution(chitAmount int64, durationMonths int, paymentModel string, markupPercent int64) int64 {
	if chitAmount <= 0 || durationMonths <= 0 {
		return 0
	}
	pool := chitAmount
	if paymentModel == "B" {
		if markupPercent < 0 {
			markupPercent = DefaultMarkupPercent
		}
		pool = chitAmount * (100 + markupPercent) / 100
	}
	d := int64(durationMonths)
	return (pool + d/2) / d
}
