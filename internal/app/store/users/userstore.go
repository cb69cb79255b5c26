package userstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/dalemusser/recycleadmin/internal/app/system/normalize"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the id.
	ErrNotFound = errors.New("user not found")
	// ErrAdminProtected is returned when asked to delete an admin account.
	ErrAdminProtected = errors.New("admin accounts cannot be deleted")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// searchFilter matches name prefixes (folded) or email prefixes.
func searchFilter(search string) bson.M {
	q := normalize.QueryParam(search)
	if q == "" {
		return bson.M{}
	}
	qFold := regexp.QuoteMeta(text.Fold(q))
	qEmail := regexp.QuoteMeta(normalize.Email(q))
	return bson.M{"$or": []bson.M{
		{"name_ci": bson.M{"$regex": "^" + qFold, "$options": "i"}},
		{"email": bson.M{"$regex": "^" + qEmail, "$options": "i"}},
	}}
}

// FetchPage returns one page of users ordered by name, optionally narrowed
// by a name/email search. A page past the end is clamped to the last page.
func (s *Store) FetchPage(ctx context.Context, page, pageSize int, search string) (paging.Result[models.User], error) {
	pageSize = paging.NormalizeSize(pageSize)
	filter := searchFilter(search)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return paging.Result[models.User]{}, err
	}
	page = paging.Clamp(page, paging.TotalPages(total, pageSize))

	findOpts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(paging.Skip(page, pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return paging.Result[models.User]{}, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return paging.Result[models.User]{}, err
	}
	return paging.NewResult(users, page, pageSize, total), nil
}

// Delete removes a non-admin user and returns the deleted record.
// Admins are refused with ErrAdminProtected.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, ErrAdminProtected
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_type": bson.M{"$ne": models.UserTypeAdmin}})
	if err != nil {
		return nil, err
	}
	if res.DeletedCount == 0 {
		return nil, ErrNotFound
	}
	return u, nil
}

// CountByType returns the number of accounts per user type. Every known
// type is present in the map, zero when absent.
func (s *Store) CountByType(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.AllUserTypes))
	for _, t := range models.AllUserTypes {
		counts[t] = 0
	}
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
