package platform

import (
	"context"
	"errors"

	certificatestore "github.com/dalemusser/recycleadmin/internal/app/store/certificates"
	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/auditlog"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoCertificates implements Certificates over the certificates collection.
type MongoCertificates struct {
	store *certificatestore.Store
	audit *auditlog.Logger
	log   *zap.Logger
}

// NewMongoCertificates wires the certificate store with audit logging.
func NewMongoCertificates(db *mongo.Database, audit *auditlog.Logger, log *zap.Logger) *MongoCertificates {
	return &MongoCertificates{store: certificatestore.New(db), audit: audit, log: log}
}

// FetchCertificates returns one page of certificates with the given status.
func (c *MongoCertificates) FetchCertificates(ctx context.Context, page, pageSize int, status string) (paging.Result[models.Certificate], error) {
	res, err := c.store.FetchPage(ctx, page, pageSize, status)
	if errors.Is(err, certificatestore.ErrBadStatus) {
		return res, apperr.Validation("Unknown certificate status.")
	}
	if err != nil {
		c.log.Warn("fetch certificates failed", zap.String("status", status), zap.Int("page", page), zap.Error(err))
		return res, apperr.Transport("", err)
	}
	return res, nil
}

// UpdateCertificateStatus approves or disapproves a certificate.
func (c *MongoCertificates) UpdateCertificateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("Invalid certificate id.")
	}

	cert, err := c.store.UpdateStatus(ctx, oid, status)
	switch {
	case errors.Is(err, certificatestore.ErrBadStatus):
		return apperr.Validation("Unknown certificate status.")
	case errors.Is(err, certificatestore.ErrNotFound):
		return apperr.Transport("This certificate no longer exists.", err)
	case errors.Is(err, certificatestore.ErrAlreadyReviewed):
		return apperr.Transport("This certificate is already "+status+".", err)
	case err != nil:
		c.log.Error("update certificate status failed", zap.String("certificate_id", id), zap.Error(err))
		return apperr.Transport("", err)
	}

	c.audit.CertificateReviewed(ctx, oid, cert.CertificateNumber, cert.Status)
	return nil
}

// CountByStatus returns certificate counts keyed by status.
func (c *MongoCertificates) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts, err := c.store.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Transport("", err)
	}
	return counts, nil
}
