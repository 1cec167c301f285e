package service

import (
	"github.com/rillyayidan/SmartHome-API/internal/utils"
)

// ConditionKind selects the synonym table used by StandardizeCondition
type ConditionKind int

const (
	PropertyCondition ConditionKind = iota
	FurnishingCondition
)

// Canonical condition labels
const (
	ConditionGood            = "Good"
	ConditionNeedsRenovation = "Needs Renovation"

	FurnishingUnfurnished = "Unfurnished"
	FurnishingSemi        = "Semi Furnished"
	FurnishingFurnished   = "Furnished"
)

var (
	PropertyConditions   = []string{ConditionGood, ConditionNeedsRenovation}
	FurnishingConditions = []string{FurnishingUnfurnished, FurnishingSemi, FurnishingFurnished}
)

// Synonym tables are matched in order. Text that matches nothing resolves to
// the first entry's label, so "Unfurnished" must stay first in its table.
var propertyConditionTable = []utils.FuzzyPair{
	{Pattern: "Good", Value: ConditionGood},
	{Pattern: "Bagus", Value: ConditionGood},
	{Pattern: "Baik", Value: ConditionGood},
	{Pattern: "Nice", Value: ConditionGood},
	{Pattern: "Very Good", Value: ConditionGood},
	{Pattern: "Move-In Ready", Value: ConditionGood},
	{Pattern: "Siap Huni", Value: ConditionGood},
	{Pattern: "Well-Maintained", Value: ConditionGood},
	{Pattern: "Terawat", Value: ConditionGood},
	{Pattern: "Renovation", Value: ConditionNeedsRenovation},
	{Pattern: "Needs Renovation", Value: ConditionNeedsRenovation},
	{Pattern: "Perlu Renovasi", Value: ConditionNeedsRenovation},
	{Pattern: "Renovasi", Value: ConditionNeedsRenovation},
	{Pattern: "Damaged", Value: ConditionNeedsRenovation},
	{Pattern: "Rusak", Value: ConditionNeedsRenovation},
}

var furnishingConditionTable = []utils.FuzzyPair{
	{Pattern: "Unfurnished", Value: FurnishingUnfurnished},
	{Pattern: "Tidak Berperabot", Value: FurnishingUnfurnished},
	{Pattern: "Kosong", Value: FurnishingUnfurnished},
	{Pattern: "Empty", Value: FurnishingUnfurnished},
	{Pattern: "Semi Furnished", Value: FurnishingSemi},
	{Pattern: "Semi Berperabot", Value: FurnishingSemi},
	{Pattern: "Sebagian Berperabot", Value: FurnishingSemi},
	{Pattern: "Partly Furnished", Value: FurnishingSemi},
	{Pattern: "Furnished", Value: FurnishingFurnished},
	{Pattern: "Berperabot", Value: FurnishingFurnished},
	{Pattern: "Full Furnished", Value: FurnishingFurnished},
	{Pattern: "Fully Furnished", Value: FurnishingFurnished},
	{Pattern: "Lengkap", Value: FurnishingFurnished},
}

// StandardizeCondition maps a free-text condition to its canonical label.
// Nil yields the kind's default. Note that "Furnished" itself is a substring
// of "Unfurnished" and therefore resolves to Unfurnished.
func StandardizeCondition(text *string, kind ConditionKind) string {
	table := propertyConditionTable
	if kind == FurnishingCondition {
		table = furnishingConditionTable
	}

	if text == nil {
		return table[0].Value
	}

	if v, ok := utils.FirstFuzzyMatch(utils.TitleCase(*text), table); ok {
		return v
	}

	return table[0].Value
}
