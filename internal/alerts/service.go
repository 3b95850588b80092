package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
	"github.com/inventag/inventag-backend/pkg/enums"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

// AlertDTO is the transport shape for a stock alert.
type AlertDTO struct {
	ID        uuid.UUID       `json:"id"`
	Kind      enums.AlertKind `json:"kind"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAlertDTO carries the data needed to raise an alert.
type CreateAlertDTO struct {
	UserID  uuid.UUID
	Kind    enums.AlertKind
	Title   string
	Message string
	ItemID  *uuid.UUID
}

// Service exposes alert operations.
type Service interface {
	Raise(ctx context.Context, dto CreateAlertDTO) (*AlertDTO, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]AlertDTO, error)
	MarkRead(ctx context.Context, userID, alertID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository interface {
	Create(ctx context.Context, alert *models.Alert) (*models.Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Alert, error)
	MarkRead(ctx context.Context, userID, alertID uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build an alerts service.
type ServiceParams struct {
	Repo repository

	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

// NewService constructs an alerts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("alerts repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, now: now}, nil
}

// Raise persists a new alert. Repeated identical alerts are stored as
// separate rows; there is no deduplication window.
func (s *service) Raise(ctx context.Context, dto CreateAlertDTO) (*AlertDTO, error) {
	if dto.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !dto.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid alert kind")
	}
	if dto.Title == "" || dto.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}

	alert, err := s.repo.Create(ctx, &models.Alert{
		UserID:  dto.UserID,
		Kind:    dto.Kind,
		Title:   dto.Title,
		Message: dto.Message,
		ItemID:  dto.ItemID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create alert")
	}
	dtoOut := fromModel(alert)
	return &dtoOut, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]AlertDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	dtos := make([]AlertDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) MarkRead(ctx context.Context, userID, alertID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, alertID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark alert read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark alerts read")
	}
	return nil
}

func (s *service) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread alerts")
	}
	return count, nil
}

func fromModel(alert *models.Alert) AlertDTO {
	return AlertDTO{
		ID:        alert.ID,
		Kind:      alert.Kind,
		Title:     alert.Title,
		Message:   alert.Message,
		ItemID:    alert.ItemID,
		ReadAt:    alert.ReadAt,
		CreatedAt: alert.CreatedAt,
	}
}
