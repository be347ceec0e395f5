package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/vehicle"
	"github.com/vitesse-mobility/service-rental/internal/response"
)

// VehicleHandler serves the public fleet endpoints.
type VehicleHandler struct {
	vehicles *application.VehicleService
	bookings *application.BookingService
	log      *zap.Logger
}

// NewVehicleHandler creates a vehicle handler.
func NewVehicleHandler(vehicles *application.VehicleService, bookings *application.BookingService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, bookings: bookings, log: log}
}

// RegisterRoutes mounts the public vehicle routes on the given group.
func (h *VehicleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/vehicles", h.ListVehicles)
	rg.GET("/vehicles/:id", h.GetVehicle)
	rg.GET("/vehicles/:id/availability", h.CheckAvailability)
	rg.GET("/vehicles/:id/quote", h.GetQuote)
}

type vehicleResponse struct {
	ID               string           `json:"id"`
	Brand            string           `json:"brand"`
	Model            string           `json:"model"`
	PlateNumber      string           `json:"plate_number"`
	Year             int              `json:"year"`
	Rates            pricing.RateCard `json:"rates"`
	IncludedKmPerDay float64          `json:"included_km_per_day"`
	Available        bool             `json:"available"`
}

func toVehicleResponse(v *vehicle.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:               v.ID().String(),
		Brand:            v.Brand(),
		Model:            v.Model(),
		PlateNumber:      v.PlateNumber(),
		Year:             v.Year(),
		Rates:            v.RateCard(),
		IncludedKmPerDay: v.IncludedKmPerDay(),
		Available:        v.IsAvailable(),
	}
}

// ListVehicles returns the fleet, available vehicles only unless all=true.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	page, limit := pageParams(c)
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))

	result, err := h.vehicles.ListVehicles(c.Request.Context(), !all, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]vehicleResponse, len(result.Items))
	for i, v := range result.Items {
		items[i] = toVehicleResponse(v)
	}
	response.Success(c, gin.H{
		"items": items,
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

// GetVehicle returns one vehicle.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}

	v, err := h.vehicles.GetVehicle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toVehicleResponse(v))
}

// CheckAvailability reports whether a window is free for the vehicle.
func (h *VehicleHandler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}
	start, end, ok := windowParams(c)
	if !ok {
		return
	}

	availability, err := h.bookings.CheckAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	conflicts := make([]gin.H, len(availability.Conflicts))
	for i, b := range availability.Conflicts {
		conflicts[i] = gin.H{
			"start_date": b.StartDate(),
			"end_date":   b.EndDate(),
		}
	}
	response.Success(c, gin.H{
		"available": availability.Available,
		"conflicts": conflicts,
	})
}

// GetQuote prices a rental window without creating a booking.
func (h *VehicleHandler) GetQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle id")
		return
	}
	start, end, ok := windowParams(c)
	if !ok {
		return
	}

	var renterAge *int
	if raw := c.Query("renter_age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "invalid renter_age")
			return
		}
		renterAge = &age
	}

	quote, err := h.bookings.GetQuote(c.Request.Context(), id, start, end, renterAge)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

func windowParams(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be RFC3339")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
