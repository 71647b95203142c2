package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleRequest is the HTTP request body for creating a vehicle.
type VehicleRequest struct {
	LicencePlate string `json:"licence_plate"`
	VehicleType  string `json:"vehicle_type"`
}

// UpdateVehicleRequest is the HTTP request body for patching a vehicle.
type UpdateVehicleRequest struct {
	LicencePlate *string `json:"licence_plate"`
	VehicleType  *string `json:"vehicle_type"`
	Deleted      *bool   `json:"deleted"`
}

// VehicleResponse is the HTTP response for vehicle operations.
type VehicleResponse struct {
	ID           string `json:"id"`
	LicencePlate string `json:"licence_plate"`
	VehicleType  string `json:"vehicle_type"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Create handles POST /v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), service.CreateVehicleRequest{
		LicencePlate: req.LicencePlate,
		VehicleType:  domain.VehicleType(req.VehicleType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// GetAll handles GET /v1/vehicles
func (h *VehicleHandler) GetAll(c *gin.Context) {
	vehicles, count, err := h.vehicleService.List(c.Request.Context(), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]VehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		data = append(data, toVehicleResponse(vehicle))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Get handles GET /v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// Update handles PATCH /v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var vehicleType *domain.VehicleType
	if req.VehicleType != nil {
		vt := domain.VehicleType(*req.VehicleType)
		vehicleType = &vt
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), service.UpdateVehicleRequest{
		LicencePlate: req.LicencePlate,
		VehicleType:  vehicleType,
		Deleted:      req.Deleted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// Delete handles DELETE /v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	vehicle, err := h.vehicleService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

func toVehicleResponse(vehicle *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           vehicle.ID,
		LicencePlate: vehicle.LicencePlate,
		VehicleType:  string(vehicle.VehicleType),
		CreatedAt:    vehicle.CreatedAt.Format(timeFormat),
		UpdatedAt:    vehicle.UpdatedAt.Format(timeFormat),
	}
}
