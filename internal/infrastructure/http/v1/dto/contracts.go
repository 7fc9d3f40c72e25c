package dto

import (
	"time"

	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain/contracts"
)

// --- Request DTOs ---

// ContractLineRequest is one contract position.
type ContractLineRequest struct {
	LineNo     int            `json:"lineNo" binding:"required"`
	VariantID  id.ID          `json:"variantId" binding:"required"`
	SKUCode    string         `json:"skuCode"`
	OrderedQty types.Quantity `json:"orderedQty"`
	UnitPrice  types.Money    `json:"unitPrice"`
}

// CreateContractRequest is the request body for creating a contract.
type CreateContractRequest struct {
	SupplierID id.ID                 `json:"supplierId" binding:"required"`
	Date       *time.Time            `json:"date"`
	Comment    string                `json:"comment"`
	Lines      []ContractLineRequest `json:"lines" binding:"required,min=1"`
}

// ToEntity converts DTO to domain entity with lines.
func (r *CreateContractRequest) ToEntity() *contracts.Contract {
	contract := contracts.NewContract(r.SupplierID)
	contract.Comment = r.Comment
	if r.Date != nil {
		contract.Date = *r.Date
	}

	contract.Lines = make([]contracts.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		contract.Lines = append(contract.Lines, contracts.NewLine(
			contract.ID, line.LineNo, line.VariantID, line.SKUCode,
			line.OrderedQty, line.UnitPrice,
		))
	}
	contract.Reaggregate()

	return contract
}

// LineDeltasRequest is the request body for applying line deltas.
type LineDeltasRequest struct {
	Field  contracts.Field       `json:"field" binding:"required"`
	Deltas []contracts.LineDelta `json:"deltas" binding:"required,min=1"`
}

// --- Response DTOs ---

// ContractLineResponse is one contract position in a response.
type ContractLineResponse struct {
	ID          string         `json:"id"`
	LineNo      int            `json:"lineNo"`
	VariantID   string         `json:"variantId"`
	SKUCode     string         `json:"skuCode"`
	OrderedQty  types.Quantity `json:"orderedQty"`
	PickedQty   types.Quantity `json:"pickedQty"`
	FinishedQty types.Quantity `json:"finishedQty"`
	UnitPrice   types.Money    `json:"unitPrice"`
	Amount      types.Money    `json:"amount"`
}

// ContractResponse is the response body for a contract.
type ContractResponse struct {
	DocumentResponse
	SupplierID   string                 `json:"supplierId"`
	SupplierName string                 `json:"supplierName,omitempty"`
	Status       contracts.Status       `json:"status"`
	OrderedQty   types.Quantity         `json:"orderedQty"`
	PickedQty    types.Quantity         `json:"pickedQty"`
	FinishedQty  types.Quantity         `json:"finishedQty"`
	TotalAmount  types.Money            `json:"totalAmount"`
	Lines        []ContractLineResponse `json:"lines,omitempty"`
}

// FromContract creates response DTO from domain entity.
func FromContract(c *contracts.Contract) *ContractResponse {
	resp := &ContractResponse{
		DocumentResponse: FromDocument(c.Document),
		SupplierID:       c.SupplierID.String(),
		SupplierName:     c.SupplierName,
		Status:           c.Status,
		OrderedQty:       c.OrderedQty,
		PickedQty:        c.PickedQty,
		FinishedQty:      c.FinishedQty,
		TotalAmount:      c.TotalAmount,
	}

	if len(c.Lines) > 0 {
		resp.Lines = make([]ContractLineResponse, 0, len(c.Lines))
		for _, line := range c.Lines {
			resp.Lines = append(resp.Lines, ContractLineResponse{
				ID:          line.ID.String(),
				LineNo:      line.LineNo,
				VariantID:   line.VariantID.String(),
				SKUCode:     line.SKUCode,
				OrderedQty:  line.OrderedQty,
				PickedQty:   line.PickedQty,
				FinishedQty: line.FinishedQty,
				UnitPrice:   line.UnitPrice,
				Amount:      line.Amount,
			})
		}
	}

	return resp
}
