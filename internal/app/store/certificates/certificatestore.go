package certificatestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/system/normalize"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no certificate matches the id.
	ErrNotFound = errors.New("certificate not found")
	// ErrBadStatus is returned for a status outside pending|approved|disapproved.
	ErrBadStatus = errors.New(`status must be "pending"|"approved"|"disapproved"`)
	// ErrAlreadyReviewed is returned when the certificate already has the
	// requested status.
	ErrAlreadyReviewed = errors.New("certificate already has this status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("certificates")}
}

// GetByID loads a certificate by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Certificate, error) {
	var c models.Certificate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FetchPage returns one page of certificates with the given status, newest
// first. An empty status lists every certificate.
func (s *Store) FetchPage(ctx context.Context, page, pageSize int, status string) (paging.Result[models.Certificate], error) {
	pageSize = paging.NormalizeSize(pageSize)
	status = normalize.Status(status)

	filter := bson.M{}
	if status != "" {
		if !models.IsValidCertificateStatus(status) {
			return paging.Result[models.Certificate]{}, ErrBadStatus
		}
		filter["status"] = status
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return paging.Result[models.Certificate]{}, err
	}
	page = paging.Clamp(page, paging.TotalPages(total, pageSize))

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(paging.Skip(page, pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return paging.Result[models.Certificate]{}, err
	}
	defer cur.Close(ctx)

	var certs []models.Certificate
	if err := cur.All(ctx, &certs); err != nil {
		return paging.Result[models.Certificate]{}, err
	}
	return paging.NewResult(certs, page, pageSize, total), nil
}

// UpdateStatus moves a certificate to approved or disapproved and returns
// the updated record.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Certificate, error) {
	status = normalize.Status(status)
	if status != models.CertificateApproved && status != models.CertificateDisapproved {
		return nil, ErrBadStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Certificate
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": status}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		opts,
	).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Distinguish a missing certificate from one already in that state.
	if _, gerr := s.GetByID(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, ErrAlreadyReviewed
}

// CountByStatus returns the number of certificates per status. Every known
// status is present in the map, zero when absent.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.CertificateStatuses))
	for _, st := range models.CertificateStatuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
