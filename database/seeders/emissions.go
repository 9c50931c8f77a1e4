package seeders

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/pkg/mongodb"
)

func init() {
	Register("emissions", SeedEmissions)
}

// SeedEmissions loads a starter set of emission reference data into MongoDB.
// Skipped silently when MongoDB is not connected.
func SeedEmissions(_ *gorm.DB) error {
	if mongodb.Database() == nil {
		fmt.Print("(mongodb not connected, skipped) ")
		return nil
	}

	factors := []models.EmissionFactor{
		{Category: "bakery", Country: models.GlobalRegion, KgCO2PerKg: 1.3, Source: "poore-nemecek-2018"},
		{Category: "meals", Country: models.GlobalRegion, KgCO2PerKg: 3.0, Source: "poore-nemecek-2018"},
		{Category: "groceries", Country: models.GlobalRegion, KgCO2PerKg: 2.0, Source: "poore-nemecek-2018"},
		{Category: "dairy", Country: models.GlobalRegion, KgCO2PerKg: 4.5, Source: "poore-nemecek-2018"},
		{Category: "produce", Country: models.GlobalRegion, KgCO2PerKg: 0.9, Source: "poore-nemecek-2018"},
		{Category: "produce", Country: "DK", KgCO2PerKg: 0.7, Source: "concito-2021"},
	}

	seasonal := []models.SeasonalInfo{
		{
			Category: "produce", Country: "DK",
			// Greenhouse/import months carry a premium.
			Multiplier: [12]float64{1.4, 1.4, 1.3, 1.1, 1.0, 1.0, 1.0, 1.0, 1.0, 1.1, 1.3, 1.4},
		},
	}

	processing := []models.ProcessingFactor{
		{Method: "fresh", Multiplier: 1.0},
		{Method: "frozen", Multiplier: 1.15},
		{Method: "canned", Multiplier: 1.25},
		{Method: "dried", Multiplier: 1.1},
	}

	waste := []models.WasteFactor{
		{Category: "bakery", Share: 0.9},
		{Category: "meals", Share: 0.85},
		{Category: "groceries", Share: 0.8},
		{Category: "dairy", Share: 0.75},
		{Category: "produce", Share: 0.9},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return repositories.NewEmissionRepository().SeedReferenceData(ctx, factors, seasonal, processing, waste)
}
