package service

// Defaults for fields that are missing or invalid
const (
	DefaultBedrooms     = 3
	DefaultBathrooms    = 2
	DefaultLandArea     = 150
	DefaultBuildingArea = 120
	DefaultCarports     = 1
)

// Upper bounds applied after imputation
const (
	maxBedrooms     = 10
	maxBathrooms    = 10
	maxLandArea     = 2000
	maxBuildingArea = 1000
	maxCarports     = 5
	maxFloors       = 4
)

// Field names used in imputation diagnostics
const (
	FieldBedrooms           = "bedrooms"
	FieldBathrooms          = "bathrooms"
	FieldLandArea           = "land_area"
	FieldBuildingArea       = "building_area"
	FieldCarports           = "carports"
	FieldElectricalCapacity = "electrical_capacity"
	FieldFloors             = "floors"
)

// RawRecord holds normalized but possibly missing values
type RawRecord struct {
	Bedrooms            *float64
	Bathrooms           *float64
	LandArea            *float64
	BuildingArea        *float64
	Carports            *float64
	ElectricalCapacity  *float64
	Floors              *float64
	PropertyCondition   *string
	FurnishingCondition *string
}

// Record is fully resolved: every field holds a concrete value
type Record struct {
	Bedrooms            float64
	Bathrooms           float64
	LandArea            float64
	BuildingArea        float64
	Carports            float64
	ElectricalCapacity  float64
	Floors              float64
	PropertyCondition   string
	FurnishingCondition string
}

// ImputedField is one field the imputer filled in, with the substituted value
type ImputedField struct {
	Name  string
	Value float64
}

// Raw converts a resolved record back into imputer input
func (r Record) Raw() RawRecord {
	return RawRecord{
		Bedrooms:            ptr(r.Bedrooms),
		Bathrooms:           ptr(r.Bathrooms),
		LandArea:            ptr(r.LandArea),
		BuildingArea:        ptr(r.BuildingArea),
		Carports:            ptr(r.Carports),
		ElectricalCapacity:  ptr(r.ElectricalCapacity),
		Floors:              ptr(r.Floors),
		PropertyCondition:   ptr(r.PropertyCondition),
		FurnishingCondition: ptr(r.FurnishingCondition),
	}
}

// Impute fills missing or non-positive fields, standardizes the condition
// descriptors and clamps the result. Rules run in a fixed order because the
// electrical and floor heuristics read the already-imputed areas and rooms.
func Impute(raw RawRecord) (Record, []ImputedField) {
	var rec Record
	imputed := []ImputedField{}

	fill := func(name string, v *float64, def func() float64) float64 {
		if v != nil && *v > 0 {
			return *v
		}
		val := def()
		imputed = append(imputed, ImputedField{Name: name, Value: val})
		return val
	}
	constant := func(c float64) func() float64 {
		return func() float64 { return c }
	}

	rec.Bedrooms = fill(FieldBedrooms, raw.Bedrooms, constant(DefaultBedrooms))
	rec.Bathrooms = fill(FieldBathrooms, raw.Bathrooms, constant(DefaultBathrooms))
	rec.LandArea = fill(FieldLandArea, raw.LandArea, constant(DefaultLandArea))
	rec.BuildingArea = fill(FieldBuildingArea, raw.BuildingArea, constant(DefaultBuildingArea))

	// any present carport count is kept, including zero and negatives
	if raw.Carports != nil {
		rec.Carports = *raw.Carports
	} else {
		rec.Carports = DefaultCarports
		imputed = append(imputed, ImputedField{Name: FieldCarports, Value: DefaultCarports})
	}

	rec.ElectricalCapacity = fill(FieldElectricalCapacity, raw.ElectricalCapacity, func() float64 {
		return estimateElectricalCapacity(rec.BuildingArea, rec.Bedrooms)
	})
	rec.Floors = fill(FieldFloors, raw.Floors, func() float64 {
		return estimateFloors(rec.BuildingArea)
	})

	rec.PropertyCondition = StandardizeCondition(raw.PropertyCondition, PropertyCondition)
	rec.FurnishingCondition = StandardizeCondition(raw.FurnishingCondition, FurnishingCondition)

	rec.Bedrooms = clampMax(rec.Bedrooms, maxBedrooms)
	rec.Bathrooms = clampMax(rec.Bathrooms, maxBathrooms)
	rec.LandArea = clampMax(rec.LandArea, maxLandArea)
	rec.BuildingArea = clampMax(rec.BuildingArea, maxBuildingArea)
	rec.Carports = clampMax(rec.Carports, maxCarports)
	rec.Floors = clampMax(rec.Floors, maxFloors)

	return rec, imputed
}

func estimateElectricalCapacity(buildingArea, bedrooms float64) float64 {
	switch {
	case buildingArea >= 200 || bedrooms >= 4:
		return 2200
	case buildingArea >= 120 || bedrooms >= 3:
		return 1300
	case buildingArea >= 70:
		return 900
	default:
		return 450
	}
}

func estimateFloors(buildingArea float64) float64 {
	if buildingArea >= 150 {
		return 2
	}
	return 1
}

func clampMax(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
