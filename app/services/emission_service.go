package services

import (
	"context"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
)

// Fallback values used when no reference data exists for a category. The base
// factor matches the platform-wide 2.5 kg CO2e per kg coefficient.
const (
	DefaultKgCO2PerKg = KgCO2PerKgFood
	defaultMultiplier = 1.0
	defaultWasteShare = 1.0
)

// ItemEstimateInput describes one food item for estimation.
type ItemEstimateInput struct {
	Category string  `json:"category" validate:"required,max=100"`
	Country  string  `json:"country" validate:"nullable,max=2"`
	Month    int     `json:"month" validate:"nullable,between=1,12"` // 1 = January
	Method   string  `json:"method" validate:"nullable,max=50"`      // "fresh", "frozen", ...
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0"`
}

// ItemEstimate is the estimation result with its factor breakdown, so clients
// can show where the number comes from.
type ItemEstimate struct {
	Category             string  `json:"category"`
	Country              string  `json:"country"`
	BaseKgCO2PerKg       float64 `json:"base_kg_co2_per_kg"`
	SeasonalMultiplier   float64 `json:"seasonal_multiplier"`
	ProcessingMultiplier float64 `json:"processing_multiplier"`
	WasteShare           float64 `json:"waste_share"`
	EffectiveKgCO2PerKg  float64 `json:"effective_kg_co2_per_kg"`
	SavedKgCO2           float64 `json:"saved_kg_co2"`
	Source               string  `json:"source,omitempty"`
}

// EmissionService estimates CO2 savings from the reference data in MongoDB,
// degrading to platform defaults when data is missing.
type EmissionService struct {
	store repositories.EmissionStore
}

func NewEmissionService() *EmissionService {
	return &EmissionService{store: repositories.NewEmissionRepository()}
}

// NewEmissionServiceWith lets tests inject a fake store.
func NewEmissionServiceWith(store repositories.EmissionStore) *EmissionService {
	return &EmissionService{store: store}
}

// EstimateItem composes the base factor with the seasonal, processing and
// waste adjustments:
//
//	saved = weight × base × seasonal(month) × processing × wasteShare
func (s *EmissionService) EstimateItem(in ItemEstimateInput) ItemEstimate {
	ctx := context.Background()

	est := ItemEstimate{
		Category:             in.Category,
		Country:              in.Country,
		BaseKgCO2PerKg:       DefaultKgCO2PerKg,
		SeasonalMultiplier:   defaultMultiplier,
		ProcessingMultiplier: defaultMultiplier,
		WasteShare:           defaultWasteShare,
	}
	if est.Country == "" {
		est.Country = models.GlobalRegion
	}

	if f, ok := s.store.Factor(ctx, in.Category, in.Country); ok {
		est.BaseKgCO2PerKg = f.KgCO2PerKg
		est.Country = f.Country
		est.Source = f.Source
	}
	if in.Month >= 1 && in.Month <= 12 {
		if si, ok := s.store.Seasonal(ctx, in.Category, in.Country); ok {
			if m := si.Multiplier[in.Month-1]; m > 0 {
				est.SeasonalMultiplier = m
			}
		}
	}
	if in.Method != "" {
		if p, ok := s.store.Processing(ctx, in.Method); ok && p.Multiplier > 0 {
			est.ProcessingMultiplier = p.Multiplier
		}
	}
	if w, ok := s.store.Waste(ctx, in.Category); ok && w.Share > 0 {
		est.WasteShare = w.Share
	}

	est.EffectiveKgCO2PerKg = est.BaseKgCO2PerKg * est.SeasonalMultiplier * est.ProcessingMultiplier * est.WasteShare
	est.SavedKgCO2 = in.WeightKg * est.EffectiveKgCO2PerKg
	return est
}

// Factor exposes the raw base factor lookup with its country fallback, for
// the reference data endpoint.
func (s *EmissionService) Factor(category, country string) (models.EmissionFactor, bool) {
	return s.store.Factor(context.Background(), category, country)
}
