package model

// PropertyInput is a single property as submitted by a client. Only the
// location is required; numeric fields accept numbers or free text with units.
type PropertyInput struct {
	Location            string     `json:"location" binding:"required"`
	Bedrooms            *FlexValue `json:"bedrooms,omitempty"`
	Bathrooms           *FlexValue `json:"bathrooms,omitempty"`
	LandArea            *FlexValue `json:"land_area,omitempty"`     // m²
	BuildingArea        *FlexValue `json:"building_area,omitempty"` // m²
	Carports            *FlexValue `json:"carports,omitempty"`
	ElectricalCapacity  *FlexValue `json:"electrical_capacity,omitempty"` // VA
	Floors              *FlexValue `json:"floors,omitempty"`
	PropertyCondition   *string    `json:"property_condition,omitempty"`
	FurnishingCondition *string    `json:"furnishing_condition,omitempty"`
}

// BatchPredictionRequest wraps several properties for one call
type BatchPredictionRequest struct {
	Properties []PropertyInput `json:"properties" binding:"required,dive"`
}

// DescribeRequest carries a free-text property description
type DescribeRequest struct {
	Description string `json:"description" binding:"required"`
}
