package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"sally/internal/common"
	"sally/pkg/database"
	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	documentURLExpiry  = 15 * time.Minute
	maxDocumentSize    = 25 << 20
	defaultContentType = "application/octet-stream"
)

type LoadService interface {
	List(ctx context.Context, tenantID int64, status *models.LoadStatus, limit, offset int) ([]*models.Load, error)
	Get(ctx context.Context, tenantID int64, loadID string) (*models.Load, error)
	Create(ctx context.Context, tenantID int64, req *CreateLoadRequest) (*models.Load, error)
	UpdateStatus(ctx context.Context, tenantID int64, loadID string, status models.LoadStatus) (*models.Load, error)
	Assign(ctx context.Context, tenantID int64, loadID string, req *AssignLoadRequest) (*models.Load, error)
	UploadDocument(ctx context.Context, tenantID int64, loadID string, upload DocumentUpload) (*models.LoadDocument, error)
	ListDocuments(ctx context.Context, tenantID int64, loadID string) ([]*models.LoadDocument, error)
}

type CreateLoadRequest struct {
	ReferenceNumber string     `json:"reference_number" validate:"required,max=100"`
	CustomerName    string     `json:"customer_name" validate:"required,max=255"`
	Origin          string     `json:"origin" validate:"required"`
	Destination     string     `json:"destination" validate:"required"`
	PickupAt        *time.Time `json:"pickup_at"`
	DeliveryAt      *time.Time `json:"delivery_at"`
	WeightLbs       *float64   `json:"weight_lbs" validate:"omitempty,gt=0"`
	Commodity       string     `json:"commodity" validate:"omitempty,max=255"`
	RateCents       *int64     `json:"rate_cents" validate:"omitempty,gte=0"`
}

type UpdateLoadStatusRequest struct {
	Status models.LoadStatus `json:"status" validate:"required,oneof=PENDING ASSIGNED IN_TRANSIT DELIVERED CANCELLED"`
}

type AssignLoadRequest struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

// DocumentUpload is a file received from a multipart request.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type loadService struct {
	repo        repositories.LoadRepository
	driverRepo  repositories.DriverRepository
	vehicleRepo repositories.VehicleRepository
	storage     DocumentStorage
	tx          database.TxManager
	log         *zap.Logger
}

func NewLoadService(repo repositories.LoadRepository, driverRepo repositories.DriverRepository,
	vehicleRepo repositories.VehicleRepository, storage DocumentStorage, tx database.TxManager, log *zap.Logger) LoadService {
	return &loadService{
		repo:        repo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		storage:     storage,
		tx:          tx,
		log:         log.Named("loads"),
	}
}

func (s *loadService) List(ctx context.Context, tenantID int64, status *models.LoadStatus, limit, offset int) ([]*models.Load, error) {
	return s.repo.List(ctx, tenantID, status, limit, offset)
}

func (s *loadService) Get(ctx context.Context, tenantID int64, loadID string) (*models.Load, error) {
	return s.repo.GetByLoadID(ctx, tenantID, loadID)
}

func (s *loadService) Create(ctx context.Context, tenantID int64, req *CreateLoadRequest) (*models.Load, error) {
	if req.PickupAt != nil && req.DeliveryAt != nil && req.DeliveryAt.Before(*req.PickupAt) {
		return nil, common.Validation("delivery_at must not be before pickup_at")
	}
	l := &models.Load{
		LoadID:          uuid.NewString(),
		TenantID:        tenantID,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Origin:          strings.TrimSpace(req.Origin),
		Destination:     strings.TrimSpace(req.Destination),
		PickupAt:        req.PickupAt,
		DeliveryAt:      req.DeliveryAt,
		WeightLbs:       req.WeightLbs,
		Commodity:       common.StringPtr(req.Commodity),
		RateCents:       req.RateCents,
		Status:          models.LoadStatusPending,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateStatus applies one step of the load state machine.
func (s *loadService) UpdateStatus(ctx context.Context, tenantID int64, loadID string, status models.LoadStatus) (*models.Load, error) {
	l, err := s.repo.GetByLoadID(ctx, tenantID, loadID)
	if err != nil {
		return nil, err
	}
	if !l.Status.CanTransitionTo(status) {
		return nil, common.InvalidState("Cannot move load from %s to %s", l.Status, status)
	}
	if status == models.LoadStatusInTransit && l.DriverID == nil {
		return nil, common.InvalidState("Load %s has no driver assigned", loadID)
	}
	if err := s.repo.UpdateStatus(ctx, tenantID, loadID, l.Status, status); err != nil {
		return nil, err
	}
	l.Status = status
	return l, nil
}

// Assign attaches a driver and/or vehicle. A PENDING load becomes ASSIGNED
// once it has a driver.
func (s *loadService) Assign(ctx context.Context, tenantID int64, loadID string, req *AssignLoadRequest) (*models.Load, error) {
	l, err := s.repo.GetByLoadID(ctx, tenantID, loadID)
	if err != nil {
		return nil, err
	}
	if l.Status == models.LoadStatusDelivered || l.Status == models.LoadStatusCancelled {
		return nil, common.InvalidState("Load %s is %s", loadID, l.Status)
	}

	driverID := common.StringPtr(req.DriverID)
	vehicleID := common.StringPtr(req.VehicleID)
	if driverID == nil && vehicleID == nil {
		return nil, common.Validation("driver_id or vehicle_id is required")
	}
	if driverID != nil {
		d, err := s.driverRepo.GetByDriverID(ctx, tenantID, *driverID)
		if err != nil {
			return nil, err
		}
		if !d.IsActive {
			return nil, common.InvalidState("Driver %s is inactive", d.DriverID)
		}
	} else {
		driverID = l.DriverID
	}
	if vehicleID != nil {
		v, err := s.vehicleRepo.GetByVehicleID(ctx, tenantID, *vehicleID)
		if err != nil {
			return nil, err
		}
		if !v.IsActive || v.Status == models.VehicleStatusMaintenance {
			return nil, common.InvalidState("Vehicle %s is not available", v.VehicleID)
		}
	} else {
		vehicleID = l.VehicleID
	}

	promote := l.Status == models.LoadStatusPending && driverID != nil
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Assign(ctx, tenantID, loadID, driverID, vehicleID); err != nil {
			return err
		}
		if promote {
			return s.repo.UpdateStatus(ctx, tenantID, loadID, models.LoadStatusPending, models.LoadStatusAssigned)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.DriverID = driverID
	l.VehicleID = vehicleID
	if promote {
		l.Status = models.LoadStatusAssigned
	}
	return l, nil
}

func (s *loadService) UploadDocument(ctx context.Context, tenantID int64, loadID string, upload DocumentUpload) (*models.LoadDocument, error) {
	if upload.Size <= 0 {
		return nil, common.Validation("file is empty")
	}
	if upload.Size > maxDocumentSize {
		return nil, common.Validation("file exceeds %d MB", maxDocumentSize>>20)
	}
	if _, err := s.repo.GetByLoadID(ctx, tenantID, loadID); err != nil {
		return nil, err
	}

	fileName := path.Base(strings.ReplaceAll(upload.FileName, "\\", "/"))
	if fileName == "." || fileName == "/" || fileName == "" {
		fileName = "document"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	doc := &models.LoadDocument{
		DocumentID:  uuid.NewString(),
		LoadID:      loadID,
		TenantID:    tenantID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   upload.Size,
	}
	doc.ObjectKey = fmt.Sprintf("tenants/%d/loads/%s/%s-%s", tenantID, loadID, doc.DocumentID, fileName)

	if err := s.storage.Upload(ctx, doc.ObjectKey, contentType, upload.Reader, upload.Size); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, doc.ObjectKey); delErr != nil {
			s.log.Warn("failed to remove orphaned document", zap.String("object_key", doc.ObjectKey), zap.Error(delErr))
		}
		return nil, err
	}

	s.withDownloadURL(ctx, doc)
	return doc, nil
}

func (s *loadService) ListDocuments(ctx context.Context, tenantID int64, loadID string) ([]*models.LoadDocument, error) {
	if _, err := s.repo.GetByLoadID(ctx, tenantID, loadID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListDocuments(ctx, tenantID, loadID)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		s.withDownloadURL(ctx, d)
	}
	return docs, nil
}

func (s *loadService) withDownloadURL(ctx context.Context, doc *models.LoadDocument) {
	url, err := s.storage.PresignedURL(ctx, doc.ObjectKey, documentURLExpiry)
	if err != nil {
		s.log.Warn("failed to presign document url", zap.String("document_id", doc.DocumentID), zap.Error(err))
		return
	}
	doc.DownloadURL = url
}
