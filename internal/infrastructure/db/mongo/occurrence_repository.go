package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

const collectionOccurrences = "occurrences"

type OccurrenceRepository struct {
	col *mongo.Collection
}

func NewOccurrenceRepository(db *mongo.Database) *OccurrenceRepository {
	return &OccurrenceRepository{col: db.Collection(collectionOccurrences)}
}

// ReplaceForJob deletes all occurrences of the job, then inserts the
// replacements. Not transactional: a regeneration that fails between the two
// steps is retried by the next dispatcher pass, and readers tolerate a
// briefly empty window.
func (r *OccurrenceRepository) ReplaceForJob(ctx context.Context, jobID string, occurrences []*domain.Occurrence) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"job_id": jobID}); err != nil {
		return err
	}
	if len(occurrences) == 0 {
		return nil
	}

	docs := make([]interface{}, len(occurrences))
	for i, occ := range occurrences {
		docs[i] = occ
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *OccurrenceRepository) InsertMany(ctx context.Context, occurrences []*domain.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(occurrences))
	for i, occ := range occurrences {
		docs[i] = occ
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// ListInRange returns occurrences overlapping [from, to], sorted by start.
func (r *OccurrenceRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Occurrence, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"start": bson.M{"$lte": to},
		"end":   bson.M{"$gte": from},
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var occurrences []*domain.Occurrence
	if err := cur.All(ctx, &occurrences); err != nil {
		return nil, err
	}
	return occurrences, nil
}

func (r *OccurrenceRepository) DeleteForJob(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"job_id": jobID})
	return err
}

// EnsureIndexes creates necessary indexes on the occurrences collection.
func (r *OccurrenceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
		{Keys: bson.D{{Key: "start", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
