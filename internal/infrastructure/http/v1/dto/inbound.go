package dto

import (
	"time"

	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain/inbound"
)

// --- Request DTOs ---

// CreateInboundRequest is the request body for creating a pending inbound.
type CreateInboundRequest struct {
	VariantID     id.ID          `json:"variantId" binding:"required"`
	SKUCode       string         `json:"skuCode"`
	Qty           types.Quantity `json:"qty"`
	WarehouseID   id.ID          `json:"warehouseId" binding:"required"`
	SourceOrderID *id.ID         `json:"sourceOrderId"`
	Date          *time.Time     `json:"date"`
	Comment       string         `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateInboundRequest) ToEntity() *inbound.PendingInbound {
	pi := inbound.NewPendingInbound(r.VariantID, r.SKUCode, r.Qty, r.WarehouseID)
	pi.SourceOrderID = r.SourceOrderID
	pi.Comment = r.Comment
	if r.Date != nil {
		pi.Date = *r.Date
	}
	return pi
}

// ReceiveRequest is the request body for recording a receipt.
type ReceiveRequest struct {
	Qty  types.Quantity `json:"qty"`
	Date *time.Time     `json:"date"`
}

// ToInput converts DTO to the service input.
func (r *ReceiveRequest) ToInput() inbound.ReceiveInput {
	input := inbound.ReceiveInput{
		Qty:  r.Qty,
		Date: time.Now().UTC(),
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

// --- Response DTOs ---

// InboundResponse is the response body for a pending inbound.
type InboundResponse struct {
	DocumentResponse
	VariantID     string         `json:"variantId"`
	SKUCode       string         `json:"skuCode"`
	Qty           types.Quantity `json:"qty"`
	ReceivedQty   types.Quantity `json:"receivedQty"`
	Status        inbound.Status `json:"status"`
	WarehouseID   string         `json:"warehouseId"`
	WarehouseName string         `json:"warehouseName,omitempty"`
	SourceOrderID *string        `json:"sourceOrderId,omitempty"`
}

// FromInbound creates response DTO from domain entity.
func FromInbound(p *inbound.PendingInbound) *InboundResponse {
	return &InboundResponse{
		DocumentResponse: FromDocument(p.Document),
		VariantID:        p.VariantID.String(),
		SKUCode:          p.SKUCode,
		Qty:              p.Qty,
		ReceivedQty:      p.ReceivedQty,
		Status:           p.Status,
		WarehouseID:      p.WarehouseID.String(),
		WarehouseName:    p.WarehouseName,
		SourceOrderID:    idString(p.SourceOrderID),
	}
}

// ReceiptBatchResponse is the response body for a receipt batch.
type ReceiptBatchResponse struct {
	ID            string         `json:"id"`
	InboundID     string         `json:"inboundId"`
	Qty           types.Quantity `json:"qty"`
	Date          time.Time      `json:"date"`
	WarehouseID   string         `json:"warehouseId"`
	WarehouseName string         `json:"warehouseName,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// FromReceiptBatch creates response DTO from domain entity.
func FromReceiptBatch(b *inbound.ReceiptBatch) *ReceiptBatchResponse {
	return &ReceiptBatchResponse{
		ID:            b.ID.String(),
		InboundID:     b.InboundID.String(),
		Qty:           b.Qty,
		Date:          b.Date,
		WarehouseID:   b.WarehouseID.String(),
		WarehouseName: b.WarehouseName,
		CreatedAt:     b.CreatedAt,
	}
}
