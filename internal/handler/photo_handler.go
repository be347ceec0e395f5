package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/domain/photo"
	"github.com/vitesse-mobility/service-rental/internal/middleware"
	"github.com/vitesse-mobility/service-rental/internal/response"
)

// PhotoHandler serves the trip condition photo endpoints.
type PhotoHandler struct {
	photos *application.PhotoService
	log    *zap.Logger
}

// NewPhotoHandler creates a photo handler.
func NewPhotoHandler(photos *application.PhotoService, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, log: log}
}

// RegisterRoutes mounts the photo routes on the given group.
func (h *PhotoHandler) RegisterRoutes(rg *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authed := rg.Group("/bookings/:id/photos", middleware.Auth(jwtManager))
	{
		authed.GET("", h.ListPhotos)
		authed.POST("", middleware.RequireRole(auth.RoleAgent, auth.RoleAdmin), h.AddPhoto)
	}
}

type addPhotoRequest struct {
	PhotoType string `json:"photo_type" binding:"required,oneof=pickup return"`
	PhotoURL  string `json:"photo_url" binding:"required,url"`
	Caption   string `json:"caption"`
}

type photoResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	PhotoType string    `json:"photo_type"`
	PhotoURL  string    `json:"photo_url"`
	Caption   string    `json:"caption,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
}

func toPhotoResponse(p *photo.TripPhoto) photoResponse {
	return photoResponse{
		ID:        p.ID().String(),
		BookingID: p.BookingID().String(),
		PhotoType: string(p.PhotoType()),
		PhotoURL:  p.PhotoURL(),
		Caption:   p.Caption(),
		TakenAt:   p.TakenAt(),
	}
}

// AddPhoto attaches a condition photo to a booking, staff only.
func (h *PhotoHandler) AddPhoto(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	var req addPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	uploadedBy, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing caller identity")
		return
	}

	p, err := h.photos.AddPhoto(c.Request.Context(), application.AddPhotoInput{
		BookingID:  bookingID,
		UploadedBy: uploadedBy,
		PhotoType:  photo.PhotoType(req.PhotoType),
		PhotoURL:   req.PhotoURL,
		Caption:    req.Caption,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toPhotoResponse(p))
}

// ListPhotos returns all photos for a booking.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	photos, err := h.photos.ListPhotos(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]photoResponse, len(photos))
	for i, p := range photos {
		items[i] = toPhotoResponse(p)
	}
	response.Success(c, items)
}
