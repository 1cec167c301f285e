package service

import (
	"math"
)

// Base feature names, in the column naming the models were trained with
const (
	FeatureBedrooms           = "Bedrooms"
	FeatureBathrooms          = "Bathrooms"
	FeatureLandArea           = "Land Area"
	FeatureBuildingArea       = "Building Area"
	FeatureCarports           = "Carports"
	FeatureElectricalCapacity = "Electrical Capacity"
	FeatureFloors             = "Floors"
)

// Derived feature names
const (
	FeatureBuildingLandRatio = "Building_Land_Ratio"
	FeatureTotalArea         = "Total_Area"
	FeatureAreaPerBedroom    = "Area_per_Bedroom"
	FeatureBathroomRatio     = "Bathroom_Ratio"
	FeaturePowerPerArea      = "Power_per_Area"
	FeaturePricePerSqm       = "Price_per_sqm"
	FeatureBedroomsXPower    = "Bedrooms_x_Power"
	FeatureLandAreaLog       = "Land Area_log"
	FeatureBuildingAreaLog   = "Building Area_log"
	FeatureTotalRooms        = "Total_Rooms"
	FeatureLuxuryScore       = "Luxury_Score"
	FeatureEfficiencyScore   = "Efficiency_Score"
)

// One-hot group prefixes
const (
	prefixZone       = "Zone_"
	prefixPower      = "Power_"
	prefixProperty   = "Property_Condition_"
	prefixFurnishing = "Furnishing_"
)

// FeatureMap is the full set of named features derived from one record
type FeatureMap map[string]float64

// EncodeFeatures expands a resolved record into base, one-hot and derived
// features. The record must come from Impute so that land area, building
// area and bedrooms are positive.
func EncodeFeatures(rec Record, zone Zone, tier ElectricalTier) FeatureMap {
	f := FeatureMap{
		FeatureBedrooms:           rec.Bedrooms,
		FeatureBathrooms:          rec.Bathrooms,
		FeatureLandArea:           rec.LandArea,
		FeatureBuildingArea:       rec.BuildingArea,
		FeatureCarports:           rec.Carports,
		FeatureElectricalCapacity: rec.ElectricalCapacity,
		FeatureFloors:             rec.Floors,
	}

	for _, z := range AllZones {
		f[prefixZone+string(z)] = indicator(z == zone)
	}
	for _, t := range AllElectricalTiers {
		f[prefixPower+string(t)] = indicator(t == tier)
	}
	for _, c := range PropertyConditions {
		f[prefixProperty+c] = indicator(c == rec.PropertyCondition)
	}
	for _, c := range FurnishingConditions {
		f[prefixFurnishing+c] = indicator(c == rec.FurnishingCondition)
	}

	f[FeatureBuildingLandRatio] = rec.BuildingArea / rec.LandArea
	f[FeatureTotalArea] = rec.BuildingArea + rec.LandArea
	f[FeatureAreaPerBedroom] = rec.BuildingArea / rec.Bedrooms
	f[FeatureBathroomRatio] = rec.Bathrooms / rec.Bedrooms
	f[FeaturePowerPerArea] = rec.ElectricalCapacity / rec.BuildingArea
	// filled after prediction when needed, always 0 as a model input
	f[FeaturePricePerSqm] = 0
	f[FeatureBedroomsXPower] = rec.Bedrooms * rec.ElectricalCapacity
	f[FeatureLandAreaLog] = math.Log1p(rec.LandArea)
	f[FeatureBuildingAreaLog] = math.Log1p(rec.BuildingArea)
	f[FeatureTotalRooms] = rec.Bedrooms + rec.Bathrooms
	f[FeatureLuxuryScore] = (rec.ElectricalCapacity / 1000) * rec.BuildingArea * rec.Floors
	f[FeatureEfficiencyScore] = rec.BuildingArea / rec.LandArea

	return f
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
