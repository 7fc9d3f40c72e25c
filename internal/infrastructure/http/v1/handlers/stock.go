package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/domain/registers/stock"
	"stocklink/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalances handles GET /registers/stock/balances?warehouseId=...
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("warehouseId is required"))
		return
	}

	balances, err := h.service.GetWarehouseStock(ctx, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: items})
}

// GetBalance handles GET /registers/stock/balance?warehouseId=...&variantId=...
func (h *StockHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("warehouseId is required"))
		return
	}

	variantID, err := id.Parse(c.Query("variantId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("variantId is required"))
		return
	}

	balance, err := h.service.GetBalance(ctx, warehouseID, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockBalance(balance))
}

// GetRecorderMovements handles GET /registers/stock/recorders/:recorderId/movements.
func (h *StockHandler) GetRecorderMovements(c *gin.Context) {
	ctx := c.Request.Context()

	recorderID, err := id.Parse(c.Param("recorderId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid recorderId format"))
		return
	}

	movements, err := h.service.GetRecorderMovements(ctx, recorderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{Items: items})
}

// GetAvailability handles GET /registers/stock/availability/:variantId.
// Returns total available quantity across all warehouses.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("variantId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid variantId format"))
		return
	}

	available, err := h.service.GetVariantAvailability(ctx, variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		VariantID: variantID.String(),
		Available: available,
	})
}

// GetMovements handles GET /registers/stock/movements/:variantId.
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	variantID, err := id.Parse(c.Param("variantId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid variantId format"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		filter.WarehouseID = &parsed
	}

	if recordType := c.Query("recordType"); recordType != "" {
		rt := entity.RecordType(recordType)
		if rt != entity.RecordTypeReceipt && rt != entity.RecordTypeExpense {
			h.Error(c, apperror.NewValidation("recordType must be receipt or expense"))
			return
		}
		filter.RecordType = &rt
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.FromDate = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.GetMovementHistory(ctx, variantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{Items: items})
}

// GetTurnover handles GET /registers/stock/turnover?dateFrom=...&dateTo=...
func (h *StockHandler) GetTurnover(c *gin.Context) {
	ctx := c.Request.Context()

	dateFrom, err := time.Parse(time.RFC3339, c.Query("dateFrom"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateFrom is required (RFC3339)"))
		return
	}

	dateTo, err := time.Parse(time.RFC3339, c.Query("dateTo"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateTo is required (RFC3339)"))
		return
	}

	filter := stock.TurnoverFilter{
		FromDate: dateFrom,
		ToDate:   dateTo,
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		filter.WarehouseID = &parsed
	}

	if variantID := c.Query("variantId"); variantID != "" {
		parsed, err := id.Parse(variantID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid variantId format"))
			return
		}
		filter.VariantID = &parsed
	}

	turnover, err := h.service.GetStockReport(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.TurnoverResponse{
		OpeningBalance: turnover.OpeningBalance,
		Receipt:        turnover.Receipt,
		Expense:        turnover.Expense,
		ClosingBalance: turnover.ClosingBalance,
	}
	if !id.IsNil(turnover.WarehouseID) {
		resp.WarehouseID = turnover.WarehouseID.String()
	}
	if !id.IsNil(turnover.VariantID) {
		resp.VariantID = turnover.VariantID.String()
	}

	c.JSON(http.StatusOK, resp)
}
