// Package repository contains the GORM-backed persistence adapters.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
)

// Postgres raises SQLSTATE 23P01 when the booking calendar exclusion
// constraint rejects an overlapping insert or update.
const exclusionViolation = "23P01"

// BookingModel is the GORM mapping of the bookings table.
type BookingModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VehicleID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	RenterID   *uuid.UUID `gorm:"type:uuid;index"`
	GuestName  *string
	GuestPhone *string
	GuestEmail *string

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`

	BasePrice  float64 `gorm:"type:numeric(10,2);not null"`
	TaxAmount  float64 `gorm:"type:numeric(10,2);not null"`
	TotalPrice float64 `gorm:"type:numeric(10,2);not null"`

	Status string `gorm:"type:varchar(20);not null;index"`

	StartOdometer *int64
	EndOdometer   *int64
	PickupNotes   string
	ReturnNotes   string
	ExtraKmFee    *float64 `gorm:"type:numeric(10,2)"`
	DamageFee     *float64 `gorm:"type:numeric(10,2)"`

	CancelNote string

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the GORM default.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingRepository implements booking.Repository over PostgreSQL.
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func toBookingModel(b *booking.Booking) *BookingModel {
	m := &BookingModel{
		ID:            b.ID(),
		VehicleID:     b.VehicleID(),
		RenterID:      b.RenterID(),
		StartDate:     b.StartDate(),
		EndDate:       b.EndDate(),
		BasePrice:     b.BasePrice(),
		TaxAmount:     b.TaxAmount(),
		TotalPrice:    b.TotalPrice(),
		Status:        string(b.Status()),
		StartOdometer: b.StartOdometer(),
		EndOdometer:   b.EndOdometer(),
		PickupNotes:   b.PickupNotes(),
		ReturnNotes:   b.ReturnNotes(),
		ExtraKmFee:    b.ExtraKmFee(),
		DamageFee:     b.DamageFee(),
		CancelNote:    b.CancelNote(),
		Version:       b.Version(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if g := b.Guest(); g != nil {
		m.GuestName = &g.Name
		m.GuestPhone = &g.Phone
		m.GuestEmail = &g.Email
	}
	return m
}

func toBookingDomain(m *BookingModel) *booking.Booking {
	var guest *booking.GuestDetails
	if m.GuestName != nil {
		guest = &booking.GuestDetails{
			Name:  *m.GuestName,
			Phone: deref(m.GuestPhone),
			Email: deref(m.GuestEmail),
		}
	}
	return booking.Reconstruct(
		m.ID, m.VehicleID,
		m.RenterID,
		guest,
		m.StartDate, m.EndDate,
		m.BasePrice, m.TaxAmount, m.TotalPrice,
		booking.Status(m.Status),
		m.StartOdometer, m.EndOdometer,
		m.PickupNotes, m.ReturnNotes,
		m.ExtraKmFee, m.DamageFee,
		m.CancelNote,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FindByID retrieves a booking by ID.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var m BookingModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toBookingDomain(&m), nil
}

// FindByRenterID retrieves a renter's bookings, newest first.
func (r *BookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*booking.Booking, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Where("renter_id = ?", renterID), page, limit)
}

// ListAll retrieves all bookings, newest first.
func (r *BookingRepository) ListAll(ctx context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx), page, limit)
}

func (r *BookingRepository) findPage(ctx context.Context, query *gorm.DB, page, limit int) ([]*booking.Booking, int64, error) {
	var total int64
	if err := query.Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// FindStale returns DRAFT and PENDING bookings created before the cutoff.
func (r *BookingRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?",
			[]string{string(booking.StatusDraft), string(booking.StatusPending)}, cutoff).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, nil
}

// FindOverlapping returns non-cancelled bookings for the vehicle whose
// [start, end) window intersects the candidate one. The interval test is
// half-open so back-to-back bookings do not conflict.
func (r *BookingRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*booking.Booking, error) {
	query := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Where("status <> ?", string(booking.StatusCancelled)).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var models []BookingModel
	if err := query.Order("start_date ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, nil
}

// Save inserts a new booking. The calendar exclusion constraint is the final
// arbiter under concurrency; its violation surfaces as SlotUnavailable.
func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	err := r.db.WithContext(ctx).Create(toBookingModel(b)).Error
	if isExclusionViolation(err) {
		return domain.NewSlotUnavailableError(b.VehicleID(), b.StartDate(), b.EndDate())
	}
	return err
}

// Update persists the booking with optimistic locking. A version mismatch
// means another writer got there first and surfaces as ConflictingUpdate.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	m := toBookingModel(b)
	currentVersion := m.Version
	m.Version = currentVersion + 1
	m.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", m.ID, currentVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if isExclusionViolation(result.Error) {
		return domain.NewSlotUnavailableError(b.VehicleID(), b.StartDate(), b.EndDate())
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified concurrently")
	}

	b.IncrementVersion()
	return nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}
