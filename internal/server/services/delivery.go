package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxSignatureBytes bounds a decoded signature image.
const MaxSignatureBytes = 1 << 20

// SignatureStorage keeps signature images out of the database.
type SignatureStorage interface {
	Enabled() bool
	Put(ctx context.Context, contentType string, body []byte) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type DeliveryInput struct {
	OrderID           string
	DeliveredQuantity float64
	OrderedQuantity   float64
	DeliveryNotes     *string
	DeliveredBy       string
	DeliveryDate      *time.Time
	// CustomerSignature is a data:image/...;base64 URL, or empty.
	CustomerSignature string
	Status            models.DeliveryStatus
}

type DeliveryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signatures  SignatureStorage
	logger      logging.Logger
	now         func() time.Time
}

func NewDeliveryService(db *sql.DB, m repomanager.RepositoryManager, signatures SignatureStorage, logger logging.Logger) *DeliveryService {
	return &DeliveryService{
		db:          db,
		repomanager: m,
		signatures:  signatures,
		logger:      logger.With("module", "deliveries"),
		now:         time.Now,
	}
}

type signature struct {
	contentType string
	data        []byte
}

func parseDataURL(s string) (*signature, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errors.New("must be a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("must be a data URL")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, errors.New("must be base64 encoded")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.New("must be an image")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("is not valid base64")
	}
	if len(data) == 0 || len(data) > MaxSignatureBytes {
		return nil, errors.New("has an invalid size")
	}
	return &signature{contentType: contentType, data: data}, nil
}

func (s *DeliveryService) validate(in DeliveryInput) (*signature, error) {
	verr := common.NewValidationError()
	if _, err := uuid.Parse(in.OrderID); err != nil {
		verr.Add("orderId", "must be a UUID")
	}
	if in.DeliveredQuantity < 0 {
		verr.Add("deliveredQuantity", "must not be negative")
	}
	if in.OrderedQuantity < 0 {
		verr.Add("orderedQuantity", "must not be negative")
	}
	if strings.TrimSpace(in.DeliveredBy) == "" {
		verr.Add("deliveredBy", "is required")
	}
	if !in.Status.Valid() {
		verr.Add("deliveryStatus", "must be one of completed, partial, failed")
	}

	var sig *signature
	if in.CustomerSignature != "" {
		if !s.signatures.Enabled() {
			verr.Add("customerSignature", "signature storage is not configured")
		} else if parsed, err := parseDataURL(in.CustomerSignature); err != nil {
			verr.Add("customerSignature", "%v", err)
		} else {
			sig = parsed
		}
	}
	return sig, verr.Err()
}

// Create stores a confirmation; a signature image is uploaded first and
// only its key is persisted.
func (s *DeliveryService) Create(ctx context.Context, in DeliveryInput) (*models.DeliveryConfirmation, error) {
	sig, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	d := &models.DeliveryConfirmation{
		OrderID:           in.OrderID,
		DeliveredQuantity: in.DeliveredQuantity,
		OrderedQuantity:   in.OrderedQuantity,
		DeliveryNotes:     in.DeliveryNotes,
		DeliveredBy:       strings.TrimSpace(in.DeliveredBy),
		DeliveryDate:      s.now().UTC(),
		Status:            in.Status,
	}
	if in.DeliveryDate != nil {
		d.DeliveryDate = *in.DeliveryDate
	}

	if sig != nil {
		key, err := s.signatures.Put(ctx, sig.contentType, sig.data)
		if err != nil {
			s.logger.Error(ctx, "signature upload failed", "order_id", in.OrderID, "error", err)
			return nil, common.ErrorInternal
		}
		d.SignatureKey = &key
	}

	return s.repomanager.Deliveries(s.db).Create(ctx, d)
}

func (s *DeliveryService) List(ctx context.Context) ([]models.DeliveryConfirmation, error) {
	return s.repomanager.Deliveries(s.db).List(ctx, DefaultListLimit)
}

// GetByOrderID returns the latest confirmation for orderID, or nil when the
// order has none. SignatureURL is filled when a signature is stored.
func (s *DeliveryService) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		verr := common.NewValidationError()
		verr.Add("orderId", "must be a UUID")
		return nil, verr
	}

	d, err := s.repomanager.Deliveries(s.db).GetByOrderID(ctx, orderID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if d.SignatureKey != nil && s.signatures.Enabled() {
		url, err := s.signatures.PresignGet(ctx, *d.SignatureKey)
		if err != nil {
			s.logger.Warn(ctx, "signature presign failed", "key", *d.SignatureKey, "error", err)
		} else {
			d.SignatureURL = url
		}
	}
	return d, nil
}
