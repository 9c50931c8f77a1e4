package models

// Emission reference data lives in MongoDB, one collection per factor type.
// Factors are keyed by food category plus an ISO country code; the code
// "GLOBAL" is the fallback row used when no country-specific factor exists.

// GlobalRegion is the country code of the fallback factor rows.
const GlobalRegion = "GLOBAL"

// EmissionFactor is the base kg CO2e emitted per kg of food produced in a
// category and region.
type EmissionFactor struct {
	Category   string  `bson:"category" json:"category"`
	Country    string  `bson:"country" json:"country"`
	KgCO2PerKg float64 `bson:"kg_co2_per_kg" json:"kg_co2_per_kg"`
	Source     string  `bson:"source,omitempty" json:"source,omitempty"`
}

// SeasonalInfo adjusts the base factor by month, capturing greenhouse heating
// and long-haul transport for out-of-season produce.
type SeasonalInfo struct {
	Category   string    `bson:"category" json:"category"`
	Country    string    `bson:"country" json:"country"`
	Multiplier [12]float64 `bson:"multiplier" json:"multiplier"` // index 0 = January
}

// ProcessingFactor adds emissions for how the food was processed.
type ProcessingFactor struct {
	Method     string  `bson:"method" json:"method"` // "fresh", "frozen", "canned", "dried"
	Multiplier float64 `bson:"multiplier" json:"multiplier"`
}

// WasteFactor scales the saving attributed to rescuing food of a category,
// accounting for the share that would genuinely have been discarded.
type WasteFactor struct {
	Category string  `bson:"category" json:"category"`
	Share    float64 `bson:"share" json:"share"` // 0..1
}
