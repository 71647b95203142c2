package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// TripRequest is the HTTP request body for recording a trip.
type TripRequest struct {
	DriverPhoneNumber string `json:"driver_phone_number"`
	DriverFullName    string `json:"driver_full_name"`
	CompanyName       string `json:"company_name"`
	LicencePlate      string `json:"licence_plate"`
	VehicleType       string `json:"vehicle_type"`

	DepartureTime           *time.Time `json:"departure_time"`
	ArrivalTime             *time.Time `json:"arrival_time"`
	UnloadStatus            string     `json:"unload_status"`
	HasGPSTracking          bool       `json:"has_gps_tracking"`
	IsInTemporaryParkingLot bool       `json:"is_in_temporary_parking_lot"`
	IsTripCanceled          bool       `json:"is_trip_canceled"`
	Notes                   string     `json:"notes"`
}

// UpdateTripRequest is the HTTP request body for patching a trip.
type UpdateTripRequest struct {
	DepartureTime           *time.Time `json:"departure_time"`
	ArrivalTime             *time.Time `json:"arrival_time"`
	UnloadStatus            *string    `json:"unload_status"`
	HasGPSTracking          *bool      `json:"has_gps_tracking"`
	IsInTemporaryParkingLot *bool      `json:"is_in_temporary_parking_lot"`
	IsTripCanceled          *bool      `json:"is_trip_canceled"`
	Notes                   *string    `json:"notes"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID                      string           `json:"id"`
	Driver                  *DriverResponse  `json:"driver,omitempty"`
	Company                 *CompanyResponse `json:"company,omitempty"`
	Vehicle                 *VehicleResponse `json:"vehicle,omitempty"`
	DepartureTime           string           `json:"departure_time,omitempty"`
	ArrivalTime             string           `json:"arrival_time"`
	UnloadStatus            string           `json:"unload_status"`
	HasGPSTracking          bool             `json:"has_gps_tracking"`
	IsInTemporaryParkingLot bool             `json:"is_in_temporary_parking_lot"`
	IsTripCanceled          bool             `json:"is_trip_canceled"`
	Notes                   string           `json:"notes,omitempty"`
	CreatedAt               string           `json:"created_at"`
	UpdatedAt               string           `json:"updated_at"`
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.DriverPhoneNumber == "" || req.CompanyName == "" || req.LicencePlate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "driver_phone_number, company_name and licence_plate are required"})
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), service.CreateTripRequest{
		DriverPhoneNumber:       req.DriverPhoneNumber,
		DriverFullName:          req.DriverFullName,
		CompanyName:             req.CompanyName,
		LicencePlate:            req.LicencePlate,
		VehicleType:             domain.VehicleType(req.VehicleType),
		DepartureTime:           req.DepartureTime,
		ArrivalTime:             req.ArrivalTime,
		UnloadStatus:            domain.UnloadStatus(req.UnloadStatus),
		HasGPSTracking:          req.HasGPSTracking,
		IsInTemporaryParkingLot: req.IsInTemporaryParkingLot,
		IsTripCanceled:          req.IsTripCanceled,
		Notes:                   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	filter := repository.TripFilter{
		CompanyID:    c.Query("companyId"),
		DriverID:     c.Query("driverId"),
		VehicleID:    c.Query("vehicleId"),
		UnloadStatus: domain.UnloadStatus(c.Query("unload_status")),
		Search:       c.Query("search"),
	}

	trips, count, err := h.tripService.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		data = append(data, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Get handles GET /v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Update handles PATCH /v1/trips/:id
func (h *TripHandler) Update(c *gin.Context) {
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var unloadStatus *domain.UnloadStatus
	if req.UnloadStatus != nil {
		us := domain.UnloadStatus(*req.UnloadStatus)
		unloadStatus = &us
	}

	trip, err := h.tripService.Update(c.Request.Context(), c.Param("id"), service.UpdateTripRequest{
		DepartureTime:           req.DepartureTime,
		ArrivalTime:             req.ArrivalTime,
		UnloadStatus:            unloadStatus,
		HasGPSTracking:          req.HasGPSTracking,
		IsInTemporaryParkingLot: req.IsInTemporaryParkingLot,
		IsTripCanceled:          req.IsTripCanceled,
		Notes:                   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// Delete handles DELETE /v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	trip, err := h.tripService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

func toTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:                      trip.ID,
		ArrivalTime:             trip.ArrivalTime.Format(timeFormat),
		UnloadStatus:            string(trip.UnloadStatus),
		HasGPSTracking:          trip.HasGPSTracking,
		IsInTemporaryParkingLot: trip.IsInTemporaryParkingLot,
		IsTripCanceled:          trip.IsTripCanceled,
		Notes:                   trip.Notes,
		CreatedAt:               trip.CreatedAt.Format(timeFormat),
		UpdatedAt:               trip.UpdatedAt.Format(timeFormat),
	}

	if trip.DepartureTime != nil {
		resp.DepartureTime = trip.DepartureTime.Format(timeFormat)
	}
	if trip.Driver != nil {
		driver := toDriverResponse(trip.Driver)
		resp.Driver = &driver
	}
	if trip.Company != nil {
		company := toCompanyResponse(trip.Company)
		resp.Company = &company
	}
	if trip.Vehicle != nil {
		vehicle := toVehicleResponse(trip.Vehicle)
		resp.Vehicle = &vehicle
	}

	return resp
}
