package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/domain"
	domainFilter "stocklink/internal/domain/filter"
	"stocklink/internal/domain/inbound"
	"stocklink/internal/infrastructure/http/v1/dto"
)

// InboundHandler handles HTTP requests for pending inbound records.
type InboundHandler struct {
	*BaseHandler
	service *inbound.Service
}

// NewInboundHandler creates a new inbound handler.
func NewInboundHandler(base *BaseHandler, service *inbound.Service) *InboundHandler {
	return &InboundHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /document/pending-inbounds.
func (h *InboundHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInboundRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pi := req.ToEntity()
	if err := h.service.Create(ctx, pi); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInbound(pi))
}

// Get handles GET /document/pending-inbounds/:id.
func (h *InboundHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	inboundID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	pi, err := h.service.GetByID(ctx, inboundID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInbound(pi))
}

// List handles GET /document/pending-inbounds - list with filtering.
func (h *InboundHandler) List(c *gin.Context) {
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
	for i, pi := range result.Items {
		items[i] = dto.FromInbound(pi)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetReceipts handles GET /document/pending-inbounds/:id/receipts.
func (h *InboundHandler) GetReceipts(c *gin.Context) {
	ctx := c.Request.Context()

	inboundID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	batches, err := h.service.GetBatches(ctx, inboundID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ReceiptBatchResponse, len(batches))
	for i := range batches {
		items[i] = dto.FromReceiptBatch(&batches[i])
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Receive handles POST /document/pending-inbounds/:id/receipts - record a receipt.
func (h *InboundHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	inboundID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.service.Receive(ctx, inboundID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReceiptBatch(batch))
}

// ReverseReceipt handles DELETE /document/pending-inbounds/:id/receipts/:batchId.
func (h *InboundHandler) ReverseReceipt(c *gin.Context) {
	ctx := c.Request.Context()

	inboundID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	batchID, err := id.Parse(c.Param("batchId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batchId format"))
		return
	}

	if err := h.service.ReverseReceipt(ctx, inboundID, batchID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
