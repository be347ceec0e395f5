// Package handler exposes the HTTP API.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
	"github.com/vitesse-mobility/service-rental/internal/middleware"
	"github.com/vitesse-mobility/service-rental/internal/response"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	bookings *application.BookingService
	log      *zap.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(bookings *application.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log}
}

// RegisterRoutes mounts the booking routes on the given group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rg.POST("/bookings/guest", h.CreateGuestBooking)

	authed := rg.Group("/bookings", middleware.Auth(jwtManager))
	{
		authed.POST("", h.CreateBooking)
		authed.GET("/me", h.ListMyBookings)
		authed.GET("/:id", h.GetBooking)
		authed.POST("/:id/checkout", h.Checkout)
		authed.POST("/:id/verify", h.VerifyBooking)
		authed.POST("/:id/confirm", h.ConfirmBooking)
		authed.POST("/:id/cancel", h.CancelBooking)
		authed.PUT("/:id/reschedule", h.RescheduleBooking)

		staff := authed.Group("", middleware.RequireRole(auth.RoleAgent, auth.RoleAdmin))
		{
			staff.POST("/:id/start", h.StartTrip)
			staff.POST("/:id/complete", h.CompleteTrip)
		}
	}
}

type guestDetailsRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type createBookingRequest struct {
	VehicleID string    `json:"vehicle_id" binding:"required,uuid"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	RenterAge *int      `json:"renter_age"`
	PayNow    bool      `json:"pay_now"`

	// Optional negotiated prices; omit all three to be quoted from the rate card.
	BasePrice  *float64 `json:"base_price"`
	TaxAmount  *float64 `json:"tax_amount"`
	TotalPrice *float64 `json:"total_price"`
}

type createGuestBookingRequest struct {
	createBookingRequest
	Guest guestDetailsRequest `json:"guest" binding:"required"`
}

type bookingResponse struct {
	ID            string                `json:"id"`
	VehicleID     string                `json:"vehicle_id"`
	RenterID      *string               `json:"renter_id,omitempty"`
	Guest         *booking.GuestDetails `json:"guest,omitempty"`
	StartDate     time.Time             `json:"start_date"`
	EndDate       time.Time             `json:"end_date"`
	BilledDays    int                   `json:"billed_days"`
	BasePrice     float64               `json:"base_price"`
	TaxAmount     float64               `json:"tax_amount"`
	TotalPrice    float64               `json:"total_price"`
	Status        string                `json:"status"`
	StartOdometer *int64                `json:"start_odometer,omitempty"`
	EndOdometer   *int64                `json:"end_odometer,omitempty"`
	PickupNotes   string                `json:"pickup_notes,omitempty"`
	ReturnNotes   string                `json:"return_notes,omitempty"`
	ExtraKmFee    *float64              `json:"extra_km_fee,omitempty"`
	DamageFee     *float64              `json:"damage_fee,omitempty"`
	CancelNote    string                `json:"cancel_note,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) bookingResponse {
	resp := bookingResponse{
		ID:            b.ID().String(),
		VehicleID:     b.VehicleID().String(),
		Guest:         b.Guest(),
		StartDate:     b.StartDate(),
		EndDate:       b.EndDate(),
		BilledDays:    b.BilledDays(),
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
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if b.RenterID() != nil {
		id := b.RenterID().String()
		resp.RenterID = &id
	}
	return resp
}

func toBookingResponses(bs []*booking.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bs))
	for i, b := range bs {
		out[i] = toBookingResponse(b)
	}
	return out
}

// CreateBooking opens a booking for the authenticated renter.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	renterID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing caller identity")
		return
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), application.CreateBookingInput{
		VehicleID:  vehicleID,
		RenterID:   &renterID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RenterAge:  req.RenterAge,
		PayNow:     req.PayNow,
		BasePrice:  req.BasePrice,
		TaxAmount:  req.TaxAmount,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBookingResponse(b))
}

// CreateGuestBooking opens a booking for a walk-in renter without an account.
func (h *BookingHandler) CreateGuestBooking(c *gin.Context) {
	var req createGuestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), application.CreateBookingInput{
		VehicleID: vehicleID,
		Guest: &booking.GuestDetails{
			Name:  req.Guest.Name,
			Phone: req.Guest.Phone,
			Email: req.Guest.Email,
		},
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		RenterAge:  req.RenterAge,
		PayNow:     req.PayNow,
		BasePrice:  req.BasePrice,
		TaxAmount:  req.TaxAmount,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBookingResponse(b))
}

// GetBooking returns one booking, owner or staff only.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, callerID, role, ok := h.callerAndID(c)
	if !ok {
		return
	}

	b, err := h.bookings.GetBooking(c.Request.Context(), id, callerID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

// ListMyBookings returns the caller's bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing caller identity")
		return
	}
	page, limit := pageParams(c)

	result, err := h.bookings.ListMyBookings(c.Request.Context(), renterID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": toBookingResponses(result.Items),
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

// Checkout moves a draft booking into the payment flow.
func (h *BookingHandler) Checkout(c *gin.Context) {
	id, callerID, role, ok := h.callerAndID(c)
	if !ok {
		return
	}

	b, err := h.bookings.MarkPendingPayment(c.Request.Context(), id, callerID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

// VerifyBooking re-checks the verification gate for the booking.
func (h *BookingHandler) VerifyBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	b, err := h.bookings.VerifyBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

// ConfirmBooking re-checks the payment gate for the booking.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	b, err := h.bookings.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking cancels a non-terminal booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, callerID, role, ok := h.callerAndID(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.bookings.CancelBooking(c.Request.Context(), id, req.Reason, callerID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

type rescheduleRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// RescheduleBooking moves an unverified booking to a new window.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	id, callerID, role, ok := h.callerAndID(c)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.bookings.RescheduleBooking(c.Request.Context(), id, req.StartDate, req.EndDate, callerID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

type startTripRequest struct {
	StartOdometer int64  `json:"start_odometer" binding:"min=0"`
	PickupNotes   string `json:"pickup_notes"`
}

// StartTrip hands the vehicle over and records the pickup reading.
func (h *BookingHandler) StartTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	var req startTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.bookings.StartTrip(c.Request.Context(), id, req.StartOdometer, req.PickupNotes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

type completeTripRequest struct {
	EndOdometer int64   `json:"end_odometer" binding:"min=0"`
	ReturnNotes string  `json:"return_notes"`
	DamageFee   float64 `json:"damage_fee" binding:"min=0"`
}

// CompleteTrip takes the vehicle back and settles the final charge.
func (h *BookingHandler) CompleteTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	var req completeTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.bookings.CompleteTrip(c.Request.Context(), id, application.CompleteTripInput{
		EndOdometer: req.EndOdometer,
		ReturnNotes: req.ReturnNotes,
		DamageFee:   req.DamageFee,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toBookingResponse(b))
}

func (h *BookingHandler) callerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return uuid.Nil, uuid.Nil, "", false
	}
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing caller identity")
		return uuid.Nil, uuid.Nil, "", false
	}
	return id, callerID, middleware.GetUserRole(c), true
}
