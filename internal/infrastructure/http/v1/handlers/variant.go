package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocklink/internal/core/apperror"
	"stocklink/internal/domain"
	"stocklink/internal/domain/catalogs/variant"
	"stocklink/internal/infrastructure/http/v1/dto"
)

// VariantHTTPHandler is the catalog handler specialization for variants.
type VariantHTTPHandler = CatalogHandler[
	*variant.Variant,
	dto.CreateVariantRequest,
	dto.UpdateVariantRequest,
]

// NewVariantHandler wires DTO mappers into the generic catalog handler.
func NewVariantHandler(
	base *BaseHandler,
	service *domain.CatalogService[*variant.Variant],
) *VariantHTTPHandler {

	config := CatalogHandlerConfig[
		*variant.Variant,
		dto.CreateVariantRequest,
		dto.UpdateVariantRequest,
	]{
		Service:    service,
		EntityName: "variant",

		MapCreateDTO: func(req dto.CreateVariantRequest) *variant.Variant {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVariantRequest, existing *variant.Variant) *variant.Variant {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *variant.Variant) any {
			return dto.FromVariant(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// VariantLookup resolves variants by merchant SKU.
type VariantLookup interface {
	GetBySKU(ctx context.Context, skuCode string) (*variant.Variant, error)
}

// VariantLookupHandler serves SKU-based variant lookups.
type VariantLookupHandler struct {
	*BaseHandler
	lookup VariantLookup
}

// NewVariantLookupHandler creates a new variant lookup handler.
func NewVariantLookupHandler(base *BaseHandler, lookup VariantLookup) *VariantLookupHandler {
	return &VariantLookupHandler{
		BaseHandler: base,
		lookup:      lookup,
	}
}

// GetBySKU handles GET /catalog/variants/by-sku/:sku.
func (h *VariantLookupHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	sku := c.Param("sku")
	if sku == "" {
		h.Error(c, apperror.NewValidation("sku is required"))
		return
	}

	v, err := h.lookup.GetBySKU(ctx, sku)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromVariant(v))
}
