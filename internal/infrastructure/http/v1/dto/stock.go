package dto

import (
	"time"

	"stocklink/internal/core/entity"
	"stocklink/internal/core/types"
)

// --- Response DTOs ---

// StockBalanceResponse is one balance row.
type StockBalanceResponse struct {
	WarehouseID    string         `json:"warehouseId"`
	VariantID      string         `json:"variantId"`
	Quantity       types.Quantity `json:"quantity"`
	LastMovementAt time.Time      `json:"lastMovementAt"`
}

// FromStockBalance creates response DTO from register entity.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		WarehouseID:    b.WarehouseID.String(),
		VariantID:      b.VariantID.String(),
		Quantity:       b.Quantity,
		LastMovementAt: b.LastMovementAt,
	}
}

// StockBalanceListResponse wraps balance rows.
type StockBalanceListResponse struct {
	Items []StockBalanceResponse `json:"items"`
}

// StockMovementResponse is one movement row.
type StockMovementResponse struct {
	LineID       string         `json:"lineId"`
	RecorderID   string         `json:"recorderId"`
	RecorderType string         `json:"recorderType"`
	Period       time.Time      `json:"period"`
	RecordType   string         `json:"recordType"`
	WarehouseID  string         `json:"warehouseId"`
	VariantID    string         `json:"variantId"`
	Quantity     types.Quantity `json:"quantity"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FromStockMovement creates response DTO from register entity.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:       m.LineID.String(),
		RecorderID:   m.RecorderID.String(),
		RecorderType: m.RecorderType,
		Period:       m.Period,
		RecordType:   string(m.RecordType),
		WarehouseID:  m.WarehouseID.String(),
		VariantID:    m.VariantID.String(),
		Quantity:     m.Quantity,
		CreatedAt:    m.CreatedAt,
	}
}

// StockMovementListResponse wraps movement rows.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
}

// TurnoverResponse is the turnover report body.
type TurnoverResponse struct {
	WarehouseID    string         `json:"warehouseId,omitempty"`
	VariantID      string         `json:"variantId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}

// AvailabilityResponse is the total availability for a variant.
type AvailabilityResponse struct {
	VariantID string         `json:"variantId"`
	Available types.Quantity `json:"available"`
}
