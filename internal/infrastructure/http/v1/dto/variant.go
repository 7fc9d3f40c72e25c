package dto

import (
	"stocklink/internal/domain/catalogs/variant"
)

// --- Request DTOs ---

// CreateVariantRequest is the request body for creating a variant.
type CreateVariantRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	SKUCode  string  `json:"skuCode" binding:"required"`
	Barcode  *string `json:"barcode"`
	IsActive bool    `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVariantRequest) ToEntity() *variant.Variant {
	v := variant.NewVariant(r.Code, r.Name, r.SKUCode)
	v.Barcode = r.Barcode
	v.IsActive = r.IsActive
	return v
}

// UpdateVariantRequest is the request body for updating a variant.
type UpdateVariantRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	SKUCode  string  `json:"skuCode" binding:"required"`
	Barcode  *string `json:"barcode,omitempty"`
	IsActive bool    `json:"isActive"`
	Version  int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVariantRequest) ApplyTo(v *variant.Variant) {
	v.Code = r.Code
	v.Name = r.Name
	v.SKUCode = r.SKUCode
	v.Barcode = r.Barcode
	v.IsActive = r.IsActive
	v.Version = r.Version
}

// --- Response DTOs ---

// VariantResponse is the response body for a variant.
type VariantResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	SKUCode      string  `json:"skuCode"`
	Barcode      *string `json:"barcode,omitempty"`
	IsActive     bool    `json:"isActive"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromVariant creates response DTO from domain entity.
func FromVariant(v *variant.Variant) *VariantResponse {
	return &VariantResponse{
		ID:           v.ID.String(),
		Code:         v.Code,
		Name:         v.Name,
		SKUCode:      v.SKUCode,
		Barcode:      v.Barcode,
		IsActive:     v.IsActive,
		DeletionMark: v.DeletionMark,
		Version:      v.Version,
	}
}
