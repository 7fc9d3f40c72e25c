package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/domain"
	"stocklink/internal/domain/contracts"
	domainFilter "stocklink/internal/domain/filter"
	"stocklink/internal/infrastructure/http/v1/dto"
)

// ContractHandler handles HTTP requests for purchase contracts.
type ContractHandler struct {
	*BaseHandler
	service *contracts.Service
}

// NewContractHandler creates a new contract handler.
func NewContractHandler(base *BaseHandler, service *contracts.Service) *ContractHandler {
	return &ContractHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /document/contracts.
func (h *ContractHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract := req.ToEntity()
	if err := h.service.Create(ctx, contract); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromContract(contract))
}

// Get handles GET /document/contracts/:id - contract with lines.
func (h *ContractHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	contractID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	contract, err := h.service.GetByID(ctx, contractID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromContract(contract))
}

// List handles GET /document/contracts - list with filtering.
func (h *ContractHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return
		}
		filter.AdvancedFilters = advFilters
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, contract := range result.Items {
		items[i] = dto.FromContract(contract)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// ApplyLineDeltas handles POST /document/contracts/:id/line-deltas.
// All deltas apply atomically or none do.
func (h *ContractHandler) ApplyLineDeltas(c *gin.Context) {
	ctx := c.Request.Context()

	contractID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.LineDeltasRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.service.ApplyLineDeltas(ctx, contractID, req.Field, req.Deltas)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromContract(contract))
}

// Settle handles POST /document/contracts/:id/settle.
func (h *ContractHandler) Settle(c *gin.Context) {
	ctx := c.Request.Context()

	contractID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Settle(ctx, contractID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "contract settled")
}

// Cancel handles POST /document/contracts/:id/cancel.
func (h *ContractHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	contractID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Cancel(ctx, contractID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "contract cancelled")
}
