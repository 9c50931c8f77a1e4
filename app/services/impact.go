package services

// Impact coefficients. Every rescued unit counts as half a kilogram of food,
// and every kilogram of rescued food avoids 2.5 kg of CO2 equivalents.
const (
	KgFoodPerUnit  = 0.5
	KgCO2PerKgFood = 2.5
)

// Impact is the environmental effect of an order.
type Impact struct {
	FoodSavedKg float64 `json:"food_saved_kg"`
	CO2SavedKg  float64 `json:"co2_saved_kg"`
}

// EstimateImpact is a pure function of the ordered quantities:
//
//	foodSaved = 0.5 * Σ quantity_i
//	co2Saved  = 2.5 * foodSaved
func EstimateImpact(quantities []int) Impact {
	total := 0
	for _, q := range quantities {
		total += q
	}
	food := KgFoodPerUnit * float64(total)
	return Impact{
		FoodSavedKg: food,
		CO2SavedKg:  KgCO2PerKgFood * food,
	}
}
