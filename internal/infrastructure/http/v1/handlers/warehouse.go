package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklink/internal/domain"
	"stocklink/internal/domain/catalogs/warehouse"
	"stocklink/internal/infrastructure/http/v1/dto"
)

// WarehouseHTTPHandler is the catalog handler specialization for warehouses.
type WarehouseHTTPHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

// NewWarehouseHandler wires DTO mappers into the generic catalog handler.
func NewWarehouseHandler(
	base *BaseHandler,
	service *domain.CatalogService[*warehouse.Warehouse],
) *WarehouseHTTPHandler {

	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// OverseasWarehouses lists active overseas warehouses, the ones feeding the
// pending-inbound pipeline.
type OverseasWarehouses interface {
	ListOverseas(ctx context.Context) ([]*warehouse.Warehouse, error)
}

// WarehouseLookupHandler serves warehouse lookup endpoints.
type WarehouseLookupHandler struct {
	*BaseHandler
	overseas OverseasWarehouses
}

// NewWarehouseLookupHandler creates a new warehouse lookup handler.
func NewWarehouseLookupHandler(base *BaseHandler, overseas OverseasWarehouses) *WarehouseLookupHandler {
	return &WarehouseLookupHandler{
		BaseHandler: base,
		overseas:    overseas,
	}
}

// ListOverseas handles GET /catalog/warehouses/overseas.
func (h *WarehouseLookupHandler) ListOverseas(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.overseas.ListOverseas(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	dtos := make([]*dto.WarehouseResponse, len(items))
	for i, wh := range items {
		dtos[i] = dto.FromWarehouse(wh)
	}

	c.JSON(http.StatusOK, gin.H{"items": dtos})
}
