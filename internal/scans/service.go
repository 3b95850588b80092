package scans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/db/models"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

// RecordDTO is the transport shape for one scan record.
type RecordDTO struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	ScannedAt time.Time `json:"scanned_at"`
	Valid     bool      `json:"valid"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
}

// AppendDTO carries the data for one committed scan line.
type AppendDTO struct {
	ItemID   uuid.UUID
	ItemName string
	Quantity int
	Valid    bool
	UserID   uuid.UUID
	UserName string
}

// Service exposes the scan feed operations.
type Service interface {
	Append(ctx context.Context, dto AppendDTO) (*RecordDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RecordDTO, error)
	ListAll(ctx context.Context, limit int) ([]RecordDTO, error)
}

type repository interface {
	Append(ctx context.Context, record *models.ScanRecord) (*models.ScanRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ScanRecord, error)
	ListAll(ctx context.Context, limit int) ([]models.ScanRecord, error)
}

type service struct {
	repo repository
}

// NewService constructs a scans service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scans repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, dto AppendDTO) (*RecordDTO, error) {
	if dto.ItemID == uuid.Nil || dto.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id and user id are required")
	}
	if dto.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	record, err := s.repo.Append(ctx, &models.ScanRecord{
		ItemID:   dto.ItemID,
		ItemName: dto.ItemName,
		Quantity: dto.Quantity,
		Valid:    dto.Valid,
		UserID:   dto.UserID,
		UserName: dto.UserName,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append scan record")
	}
	out := fromModel(record)
	return &out, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RecordDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list scan records")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAll(ctx context.Context, limit int) ([]RecordDTO, error) {
	rows, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list scan feed")
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []models.ScanRecord) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, fromModel(&rows[i]))
	}
	return dtos
}

func fromModel(record *models.ScanRecord) RecordDTO {
	return RecordDTO{
		ID:        record.ID,
		ItemID:    record.ItemID,
		ItemName:  record.ItemName,
		Quantity:  record.Quantity,
		ScannedAt: record.ScannedAt,
		Valid:     record.Valid,
		UserID:    record.UserID,
		UserName:  record.UserName,
	}
}
