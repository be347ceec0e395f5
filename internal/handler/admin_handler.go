package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
	"github.com/vitesse-mobility/service-rental/internal/middleware"
	"github.com/vitesse-mobility/service-rental/internal/response"
)

// AdminHandler serves the fleet and platform administration endpoints.
type AdminHandler struct {
	vehicles *application.VehicleService
	bookings *application.BookingService
	settings *application.SettingsService
	log      *zap.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(
	vehicles *application.VehicleService,
	bookings *application.BookingService,
	settingsService *application.SettingsService,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		vehicles: vehicles,
		bookings: bookings,
		settings: settingsService,
		log:      log,
	}
}

// RegisterRoutes mounts the admin routes on the given group.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin", middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/vehicles", h.CreateVehicle)
		admin.PUT("/vehicles/:id", h.UpdateVehicle)
		admin.PUT("/vehicles/:id/rates", h.UpdateRateCard)
		admin.PUT("/vehicles/:id/availability", h.SetAvailability)

		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.BookingStats)

		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings", h.UpdateSettings)
	}
}

type rateCardRequest struct {
	PricePerHour *float64 `json:"price_per_hour"`
	PricePerKm   *float64 `json:"price_per_km"`
	PricePerDay  *float64 `json:"price_per_day"`
}

func (r rateCardRequest) toRateCard() pricing.RateCard {
	return pricing.RateCard{
		PerHour: r.PricePerHour,
		PerKm:   r.PricePerKm,
		PerDay:  r.PricePerDay,
	}
}

type createVehicleRequest struct {
	Brand            string          `json:"brand" binding:"required"`
	Model            string          `json:"model" binding:"required"`
	PlateNumber      string          `json:"plate_number" binding:"required"`
	Year             int             `json:"year" binding:"required"`
	Rates            rateCardRequest `json:"rates" binding:"required"`
	IncludedKmPerDay float64         `json:"included_km_per_day" binding:"min=0"`
}

// CreateVehicle adds a vehicle to the fleet.
func (h *AdminHandler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.vehicles.CreateVehicle(c.Request.Context(), application.CreateVehicleInput{
		Brand:            req.Brand,
		Model:            req.Model,
		PlateNumber:      req.PlateNumber,
		Year:             req.Year,
		RateCard:         req.Rates.toRateCard(),
		IncludedKmPerDay: req.IncludedKmPerDay,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toVehicleResponse(v))
}

type updateVehicleRequest struct {
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	PlateNumber      string  `json:"plate_number"`
	Year             int     `json:"year"`
	IncludedKmPerDay float64 `json:"included_km_per_day"`
}

// UpdateVehicle applies partial updates to a vehicle's description.
func (h *AdminHandler) UpdateVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.vehicles.UpdateVehicle(c.Request.Context(), id, application.UpdateVehicleInput{
		Brand:            req.Brand,
		Model:            req.Model,
		PlateNumber:      req.PlateNumber,
		Year:             req.Year,
		IncludedKmPerDay: req.IncludedKmPerDay,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toVehicleResponse(v))
}

// UpdateRateCard replaces a vehicle's rate card.
func (h *AdminHandler) UpdateRateCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	var req rateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.vehicles.UpdateRateCard(c.Request.Context(), id, req.toRateCard())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toVehicleResponse(v))
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability flips a vehicle's administrative availability flag.
func (h *AdminHandler) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.vehicles.SetAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toVehicleResponse(v))
}

// ListBookings returns all bookings with pagination.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := pageParams(c)

	result, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
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

// BookingStats returns booking counts grouped by status.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// GetSettings returns the current platform settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	ps, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ps)
}

type updateSettingsRequest struct {
	TaxPercentage           float64 `json:"tax_percentage" binding:"min=0,max=100"`
	Currency                string  `json:"currency" binding:"required,len=3"`
	YoungDriverMinAge       int     `json:"young_driver_min_age" binding:"min=0"`
	YoungDriverSurchargePct float64 `json:"young_driver_surcharge_pct" binding:"min=0"`
}

// UpdateSettings replaces the platform settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ps, err := h.settings.UpdateSettings(c.Request.Context(), settings.PlatformSettings{
		TaxPercentage:           req.TaxPercentage,
		Currency:                req.Currency,
		YoungDriverMinAge:       req.YoungDriverMinAge,
		YoungDriverSurchargePct: req.YoungDriverSurchargePct,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ps)
}
