package dto

import (
	"time"

	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain/orders"
)

// --- Request DTOs ---

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	Kind        orders.Kind    `json:"kind" binding:"required"`
	VariantID   id.ID          `json:"variantId" binding:"required"`
	SKUCode     string         `json:"skuCode"`
	OrderedQty  types.Quantity `json:"orderedQty"`
	WarehouseID *id.ID         `json:"warehouseId"`
	Date        *time.Time     `json:"date"`
	Comment     string         `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOrderRequest) ToEntity() *orders.Order {
	order := orders.NewOrder(r.Kind, r.VariantID, r.SKUCode, r.OrderedQty)
	order.WarehouseID = r.WarehouseID
	order.Comment = r.Comment
	if r.Date != nil {
		order.Date = *r.Date
	}
	return order
}

// RecordBatchRequest is the request body for recording a fulfillment batch.
type RecordBatchRequest struct {
	Qty         types.Quantity `json:"qty"`
	Date        *time.Time     `json:"date"`
	WarehouseID *id.ID         `json:"warehouseId"`
	TrackingNo  string         `json:"trackingNo"`
}

// ToInput converts DTO to the service input.
func (r *RecordBatchRequest) ToInput() orders.BatchInput {
	input := orders.BatchInput{
		Qty:         r.Qty,
		Date:        time.Now().UTC(),
		WarehouseID: r.WarehouseID,
		TrackingNo:  r.TrackingNo,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

// --- Response DTOs ---

// OrderResponse is the response body for an order.
type OrderResponse struct {
	DocumentResponse
	Kind            orders.Kind    `json:"kind"`
	VariantID       string         `json:"variantId"`
	SKUCode         string         `json:"skuCode"`
	OrderedQty      types.Quantity `json:"orderedQty"`
	FulfilledQty    types.Quantity `json:"fulfilledQty"`
	Status          string         `json:"status"`
	WarehouseID     *string        `json:"warehouseId,omitempty"`
	WarehouseName   string         `json:"warehouseName,omitempty"`
	SourceInboundID *string        `json:"sourceInboundId,omitempty"`
}

// FromOrder creates response DTO from domain entity.
func FromOrder(o *orders.Order) *OrderResponse {
	return &OrderResponse{
		DocumentResponse: FromDocument(o.Document),
		Kind:             o.Kind,
		VariantID:        o.VariantID.String(),
		SKUCode:          o.SKUCode,
		OrderedQty:       o.OrderedQty,
		FulfilledQty:     o.FulfilledQty,
		Status:           string(o.Status),
		WarehouseID:      idString(o.WarehouseID),
		WarehouseName:    o.WarehouseName,
		SourceInboundID:  idString(o.SourceInboundID),
	}
}

// BatchResponse is the response body for a fulfillment batch.
type BatchResponse struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"orderId"`
	Qty           types.Quantity `json:"qty"`
	Date          time.Time      `json:"date"`
	WarehouseID   *string        `json:"warehouseId,omitempty"`
	WarehouseName string         `json:"warehouseName,omitempty"`
	TrackingNo    string         `json:"trackingNo,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// FromBatch creates response DTO from domain entity.
func FromBatch(b *orders.Batch) *BatchResponse {
	return &BatchResponse{
		ID:            b.ID.String(),
		OrderID:       b.OrderID.String(),
		Qty:           b.Qty,
		Date:          b.Date,
		WarehouseID:   idString(b.WarehouseID),
		WarehouseName: b.WarehouseName,
		TrackingNo:    b.TrackingNo,
		CreatedAt:     b.CreatedAt,
	}
}

func idString(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
