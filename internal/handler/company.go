package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// CompanyHandler handles HTTP requests for companies.
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CompanyRequest is the HTTP request body for creating a company.
type CompanyRequest struct {
	Name string `json:"name"`
}

// UpdateCompanyRequest is the HTTP request body for patching a company.
type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	Deleted *bool   `json:"deleted"`
}

// CompanyResponse is the HTTP response for company operations.
type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Create handles POST /v1/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), service.CreateCompanyRequest{Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCompanyResponse(company))
}

// GetAll handles GET /v1/companies
func (h *CompanyHandler) GetAll(c *gin.Context) {
	companies, count, err := h.companyService.List(c.Request.Context(), c.Query("search"), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]CompanyResponse, 0, len(companies))
	for _, company := range companies {
		data = append(data, toCompanyResponse(company))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Search handles GET /v1/companies/search?name=
func (h *CompanyHandler) Search(c *gin.Context) {
	companies, count, err := h.companyService.List(c.Request.Context(), c.Query("name"), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]CompanyResponse, 0, len(companies))
	for _, company := range companies {
		data = append(data, toCompanyResponse(company))
	}

	respondJSON(c, http.StatusOK, ListResponse{Data: data, Count: count})
}

// Get handles GET /v1/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCompanyResponse(company))
}

// Update handles PATCH /v1/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), c.Param("id"), service.UpdateCompanyRequest{
		Name:    req.Name,
		Deleted: req.Deleted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCompanyResponse(company))
}

// Delete handles DELETE /v1/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	company, err := h.companyService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCompanyResponse(company))
}

func toCompanyResponse(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		CreatedAt: company.CreatedAt.Format(timeFormat),
		UpdatedAt: company.UpdatedAt.Format(timeFormat),
	}
}
