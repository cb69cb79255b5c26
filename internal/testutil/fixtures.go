package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a platform account of the given type.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, userType string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		UserType:  userType,
		Phone:     "555-0100",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin inserts an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.UserTypeAdmin)
}

// CreateRecycler inserts a recycler account.
func (f *Fixtures) CreateRecycler(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.UserTypeRecycler)
}

// CreateCertificate inserts a certificate with the given number and status.
// createdAt orders certificates newest first in listings.
func (f *Fixtures) CreateCertificate(ctx context.Context, number, status string, createdAt time.Time) models.Certificate {
	f.t.Helper()

	cert := models.Certificate{
		ID:                primitive.NewObjectID(),
		UploadedBy:        models.Uploader{Name: "Rita Recycler", Email: "rita@example.com"},
		DocumentType:      "Waste Handling License",
		CertificateNumber: number,
		IssuingAuthority:  "State Pollution Control Board",
		ValidityPeriod:    "2026-01-01 to 2027-01-01",
		Status:            status,
		UploadDocumentRef: "uploads/" + number + ".pdf",
		CreatedAt:         createdAt.UTC(),
		UpdatedAt:         createdAt.UTC(),
	}

	if _, err := f.db.Collection("certificates").InsertOne(ctx, cert); err != nil {
		f.t.Fatalf("failed to create test certificate: %v", err)
	}
	return cert
}
