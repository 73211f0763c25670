package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

const collectionSettings = "settings"

// settingsDocID is the fixed id of the single business profile document.
const settingsDocID = "business_profile"

type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Settings
	err := r.col.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	s.ID = settingsDocID
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, s, options.Replace().SetUpsert(true))
	return err
}
