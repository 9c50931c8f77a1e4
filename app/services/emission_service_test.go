package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/services"
)

// fakeEmissionStore serves reference data from maps, standing in for the
// MongoDB-backed repository.
type fakeEmissionStore struct {
	factors    map[string]models.EmissionFactor // key: category+"/"+country
	seasonal   map[string]models.SeasonalInfo
	processing map[string]models.ProcessingFactor
	waste      map[string]models.WasteFactor
}

func (f *fakeEmissionStore) Factor(_ context.Context, category, country string) (models.EmissionFactor, bool) {
	if v, ok := f.factors[category+"/"+country]; ok {
		return v, true
	}
	v, ok := f.factors[category+"/"+models.GlobalRegion]
	return v, ok
}

func (f *fakeEmissionStore) Seasonal(_ context.Context, category, country string) (models.SeasonalInfo, bool) {
	if v, ok := f.seasonal[category+"/"+country]; ok {
		return v, true
	}
	v, ok := f.seasonal[category+"/"+models.GlobalRegion]
	return v, ok
}

func (f *fakeEmissionStore) Processing(_ context.Context, method string) (models.ProcessingFactor, bool) {
	v, ok := f.processing[method]
	return v, ok
}

func (f *fakeEmissionStore) Waste(_ context.Context, category string) (models.WasteFactor, bool) {
	v, ok := f.waste[category]
	return v, ok
}

func emptyStore() *fakeEmissionStore {
	return &fakeEmissionStore{
		factors:    map[string]models.EmissionFactor{},
		seasonal:   map[string]models.SeasonalInfo{},
		processing: map[string]models.ProcessingFactor{},
		waste:      map[string]models.WasteFactor{},
	}
}

func TestEstimateFallsBackToDefaults(t *testing.T) {
	svc := services.NewEmissionServiceWith(emptyStore())

	est := svc.EstimateItem(services.ItemEstimateInput{Category: "bakery", WeightKg: 2})

	assert.Equal(t, services.DefaultKgCO2PerKg, est.BaseKgCO2PerKg)
	assert.Equal(t, 1.0, est.SeasonalMultiplier)
	assert.Equal(t, 1.0, est.ProcessingMultiplier)
	assert.Equal(t, 1.0, est.WasteShare)
	assert.InDelta(t, 2*services.DefaultKgCO2PerKg, est.SavedKgCO2, 1e-9)
}

func TestEstimateCountryFallsBackToGlobal(t *testing.T) {
	store := emptyStore()
	store.factors["produce/GLOBAL"] = models.EmissionFactor{
		Category: "produce", Country: models.GlobalRegion, KgCO2PerKg: 0.9,
	}
	svc := services.NewEmissionServiceWith(store)

	est := svc.EstimateItem(services.ItemEstimateInput{Category: "produce", Country: "SE", WeightKg: 1})
	assert.Equal(t, 0.9, est.BaseKgCO2PerKg)
	assert.Equal(t, models.GlobalRegion, est.Country)
}

func TestEstimatePrefersCountryFactor(t *testing.T) {
	store := emptyStore()
	store.factors["produce/GLOBAL"] = models.EmissionFactor{
		Category: "produce", Country: models.GlobalRegion, KgCO2PerKg: 0.9,
	}
	store.factors["produce/DK"] = models.EmissionFactor{
		Category: "produce", Country: "DK", KgCO2PerKg: 0.7,
	}
	svc := services.NewEmissionServiceWith(store)

	est := svc.EstimateItem(services.ItemEstimateInput{Category: "produce", Country: "DK", WeightKg: 1})
	assert.Equal(t, 0.7, est.BaseKgCO2PerKg)
	assert.Equal(t, "DK", est.Country)
}

func TestEstimateComposesAdjustments(t *testing.T) {
	store := emptyStore()
	store.factors["produce/DK"] = models.EmissionFactor{
		Category: "produce", Country: "DK", KgCO2PerKg: 2.0,
	}
	store.seasonal["produce/DK"] = models.SeasonalInfo{
		Category: "produce", Country: "DK",
		Multiplier: [12]float64{1.4, 1.4, 1.3, 1.1, 1, 1, 1, 1, 1, 1.1, 1.3, 1.4},
	}
	store.processing["frozen"] = models.ProcessingFactor{Method: "frozen", Multiplier: 1.15}
	store.waste["produce"] = models.WasteFactor{Category: "produce", Share: 0.9}
	svc := services.NewEmissionServiceWith(store)

	est := svc.EstimateItem(services.ItemEstimateInput{
		Category: "produce", Country: "DK", Month: 1, Method: "frozen", WeightKg: 2,
	})

	assert.Equal(t, 1.4, est.SeasonalMultiplier)
	assert.Equal(t, 1.15, est.ProcessingMultiplier)
	assert.Equal(t, 0.9, est.WasteShare)
	want := 2.0 * 1.4 * 1.15 * 0.9
	assert.InDelta(t, want, est.EffectiveKgCO2PerKg, 1e-9)
	assert.InDelta(t, 2*want, est.SavedKgCO2, 1e-9)
}
