package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

const (
	collectionInvoices = "invoices"
	collectionCounters = "counters"
)

type InvoiceRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{
		col:      db.Collection(collectionInvoices),
		counters: db.Collection(collectionCounters),
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, i *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, i)
	return err
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var i domain.Invoice
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&i)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, i *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": i.ID}, i)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter ports.InvoiceListFilter) ([]*domain.Invoice, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	issuedRange := bson.M{}
	if !filter.From.IsZero() {
		issuedRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		issuedRange["$lte"] = filter.To
	}
	if len(issuedRange) > 0 {
		query["issued_at"] = issuedRange
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "issued_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var invoices []*domain.Invoice
	if err := cur.All(ctx, &invoices); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// NextNumber reserves the next sequential invoice number via an atomic
// findAndModify on the counters collection.
func (r *InvoiceRepository) NextNumber(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "invoice_number"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// EnsureIndexes creates necessary indexes on the invoices collection.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "issued_at", Value: -1}}},
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
