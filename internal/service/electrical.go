package service

// ElectricalTier is the capacity band of a property's electrical connection
type ElectricalTier string

const (
	TierBasic     ElectricalTier = "Basic_450VA"
	TierStandard  ElectricalTier = "Standard_900VA"
	TierMid       ElectricalTier = "Mid_1300VA"
	TierHigh      ElectricalTier = "High_2200VA"
	TierPremium   ElectricalTier = "Premium_3500VA"
	TierLuxury    ElectricalTier = "Luxury_5500VA"
	TierUltraPlus ElectricalTier = "Ultra_5500VA_Plus"
)

// AllElectricalTiers lists the tiers in ascending order
var AllElectricalTiers = []ElectricalTier{
	TierBasic, TierStandard, TierMid, TierHigh, TierPremium, TierLuxury, TierUltraPlus,
}

// ClassifyElectrical returns the tier for a capacity in VA. Upper bounds are
// inclusive; nil is treated as the 1300VA tier.
func ClassifyElectrical(capacity *float64) ElectricalTier {
	if capacity == nil {
		return TierMid
	}

	switch c := *capacity; {
	case c <= 450:
		return TierBasic
	case c <= 900:
		return TierStandard
	case c <= 1300:
		return TierMid
	case c <= 2200:
		return TierHigh
	case c <= 3500:
		return TierPremium
	case c <= 5500:
		return TierLuxury
	default:
		return TierUltraPlus
	}
}
