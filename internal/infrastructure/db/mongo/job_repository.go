package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

const collectionJobs = "jobs"

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, j)
	return err
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": j.ID}, j)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter ports.JobListFilter) ([]*domain.Job, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	startRange := bson.M{}
	if !filter.From.IsZero() {
		startRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		startRange["$lte"] = filter.To
	}
	if len(startRange) > 0 {
		query["scheduled_start"] = startRange
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_start", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var jobs []*domain.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListInRange returns jobs whose scheduled window overlaps [from, to].
func (r *JobRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"scheduled_start": bson.M{"$lte": to},
		"scheduled_end":   bson.M{"$gte": from},
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var jobs []*domain.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListRecurring returns every job carrying a recurrence rule.
func (r *JobRepository) ListRecurring(ctx context.Context) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"recurrence.rrule": bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var jobs []*domain.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// EnsureIndexes creates necessary indexes on the jobs collection.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "scheduled_start", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
