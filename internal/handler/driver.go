package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverRequest is the HTTP request body for creating a driver.
type DriverRequest struct {
	CompanyID   string `json:"company_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateDriverRequest is the HTTP request body for patching a driver.
type UpdateDriverRequest struct {
	CompanyID   *string `json:"company_id"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Deleted     *bool   `json:"deleted"`
}

// DriverResponse is the HTTP response for driver operations.
type DriverResponse struct {
	ID          string           `json:"id"`
	FullName    string           `json:"full_name"`
	PhoneNumber string           `json:"phone_number,omitempty"`
	Company     *CompanyResponse `json:"company,omitempty"`
	CompanyID   string           `json:"company_id"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// Create handles POST /v1/drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), service.CreateDriverRequest{
		CompanyID:   req.CompanyID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	filter := repository.DriverFilter{
		CompanyID: c.Query("companyId"),
		Search:    c.Query("search"),
	}

	drivers, count, err := h.driverService.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		data = append(data, toDriverResponse(driver))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Search handles GET /v1/drivers/search?q=
func (h *DriverHandler) Search(c *gin.Context) {
	filter := repository.DriverFilter{Search: c.Query("q")}

	drivers, count, err := h.driverService.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		data = append(data, toDriverResponse(driver))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Get handles GET /v1/drivers/:id
func (h *DriverHandler) Get(c *gin.Context) {
	driver, err := h.driverService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Update handles PATCH /v1/drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.Update(c.Request.Context(), c.Param("id"), service.UpdateDriverRequest{
		CompanyID:   req.CompanyID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Deleted:     req.Deleted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Delete handles DELETE /v1/drivers/:id
func (h *DriverHandler) Delete(c *gin.Context) {
	driver, err := h.driverService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	resp := DriverResponse{
		ID:          driver.ID,
		FullName:    driver.FullName,
		PhoneNumber: driver.PhoneNumber,
		CompanyID:   driver.CompanyID,
		CreatedAt:   driver.CreatedAt.Format(timeFormat),
		UpdatedAt:   driver.UpdatedAt.Format(timeFormat),
	}
	if driver.Company != nil {
		company := toCompanyResponse(driver.Company)
		resp.Company = &company
	}
	return resp
}
