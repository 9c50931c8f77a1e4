package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/mongodb"
)

// Collection names for emission reference data.
const (
	CollEmissionFactors   = "emission_factors"
	CollSeasonalInfo      = "seasonal_info"
	CollProcessingFactors = "processing_factors"
	CollWasteFactors      = "waste_factors"
)

const emissionQueryTimeout = 3 * time.Second

// EmissionStore is the read interface the emission service depends on.
// Satisfied by EmissionRepository in production and by fakes in tests.
type EmissionStore interface {
	Factor(ctx context.Context, category, country string) (models.EmissionFactor, bool)
	Seasonal(ctx context.Context, category, country string) (models.SeasonalInfo, bool)
	Processing(ctx context.Context, method string) (models.ProcessingFactor, bool)
	Waste(ctx context.Context, category string) (models.WasteFactor, bool)
}

// EmissionRepository reads emission reference data from MongoDB. Every lookup
// returns a "found" flag rather than an error: missing reference data (or an
// unavailable Mongo) degrades to the caller's defaults instead of failing the
// request.
type EmissionRepository struct {
	db *mongo.Database
}

// NewEmissionRepository wires the repository to the shared Mongo connection.
// The handle may be nil when MongoDB is not configured.
func NewEmissionRepository() *EmissionRepository {
	return &EmissionRepository{db: mongodb.Database()}
}

func (r *EmissionRepository) coll(name string) *mongo.Collection {
	if r.db == nil {
		return nil
	}
	return r.db.Collection(name)
}

func (r *EmissionRepository) findOne(coll string, filter bson.M, dest interface{}) bool {
	c := r.coll(coll)
	if c == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), emissionQueryTimeout)
	defer cancel()

	return c.FindOne(ctx, filter).Decode(dest) == nil
}

// Factor returns the base emission factor for a category, trying the given
// country first and falling back to the GLOBAL row.
func (r *EmissionRepository) Factor(ctx context.Context, category, country string) (models.EmissionFactor, bool) {
	var f models.EmissionFactor
	if country != "" && country != models.GlobalRegion {
		if r.findOne(CollEmissionFactors, bson.M{"category": category, "country": country}, &f) {
			return f, true
		}
	}
	if r.findOne(CollEmissionFactors, bson.M{"category": category, "country": models.GlobalRegion}, &f) {
		return f, true
	}
	return models.EmissionFactor{}, false
}

// Seasonal returns the per-month multipliers for a category, with the same
// country then GLOBAL fallback as Factor.
func (r *EmissionRepository) Seasonal(ctx context.Context, category, country string) (models.SeasonalInfo, bool) {
	var s models.SeasonalInfo
	if country != "" && country != models.GlobalRegion {
		if r.findOne(CollSeasonalInfo, bson.M{"category": category, "country": country}, &s) {
			return s, true
		}
	}
	if r.findOne(CollSeasonalInfo, bson.M{"category": category, "country": models.GlobalRegion}, &s) {
		return s, true
	}
	return models.SeasonalInfo{}, false
}

// Processing returns the multiplier for a processing method.
func (r *EmissionRepository) Processing(ctx context.Context, method string) (models.ProcessingFactor, bool) {
	var p models.ProcessingFactor
	if r.findOne(CollProcessingFactors, bson.M{"method": method}, &p) {
		return p, true
	}
	return models.ProcessingFactor{}, false
}

// Waste returns the waste share for a category.
func (r *EmissionRepository) Waste(ctx context.Context, category string) (models.WasteFactor, bool) {
	var w models.WasteFactor
	if r.findOne(CollWasteFactors, bson.M{"category": category}, &w) {
		return w, true
	}
	return models.WasteFactor{}, false
}

// SeedReferenceData inserts factor documents, used by the db seeder. Existing
// documents for the same key are replaced.
func (r *EmissionRepository) SeedReferenceData(ctx context.Context, factors []models.EmissionFactor, seasonal []models.SeasonalInfo, processing []models.ProcessingFactor, waste []models.WasteFactor) error {
	if r.db == nil {
		return mongo.ErrClientDisconnected
	}

	for _, f := range factors {
		filter := bson.M{"category": f.Category, "country": f.Country}
		if _, err := r.coll(CollEmissionFactors).ReplaceOne(ctx, filter, f, replaceUpsert()); err != nil {
			return err
		}
	}
	for _, s := range seasonal {
		filter := bson.M{"category": s.Category, "country": s.Country}
		if _, err := r.coll(CollSeasonalInfo).ReplaceOne(ctx, filter, s, replaceUpsert()); err != nil {
			return err
		}
	}
	for _, p := range processing {
		filter := bson.M{"method": p.Method}
		if _, err := r.coll(CollProcessingFactors).ReplaceOne(ctx, filter, p, replaceUpsert()); err != nil {
			return err
		}
	}
	for _, w := range waste {
		filter := bson.M{"category": w.Category}
		if _, err := r.coll(CollWasteFactors).ReplaceOne(ctx, filter, w, replaceUpsert()); err != nil {
			return err
		}
	}
	return nil
}

func replaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}
