package dto

import (
	"stocklink/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code               string  `json:"code"`
	Name               string  `json:"name" binding:"required"`
	Overseas           bool    `json:"overseas"`
	Address            *string `json:"address"`
	IsActive           bool    `json:"isActive"`
	AllowNegativeStock bool    `json:"allowNegativeStock"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Overseas = r.Overseas
	wh.Address = r.Address
	wh.IsActive = r.IsActive
	wh.AllowNegativeStock = r.AllowNegativeStock
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code               string  `json:"code"`
	Name               string  `json:"name" binding:"required"`
	Overseas           bool    `json:"overseas"`
	Address            *string `json:"address,omitempty"`
	IsActive           bool    `json:"isActive"`
	AllowNegativeStock bool    `json:"allowNegativeStock"`
	Version            int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Overseas = r.Overseas
	wh.Address = r.Address
	wh.IsActive = r.IsActive
	wh.AllowNegativeStock = r.AllowNegativeStock
	wh.Version = r.Version
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Overseas           bool    `json:"overseas"`
	Address            *string `json:"address,omitempty"`
	IsActive           bool    `json:"isActive"`
	AllowNegativeStock bool    `json:"allowNegativeStock"`
	DeletionMark       bool    `json:"deletionMark"`
	Version            int     `json:"version"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:                 wh.ID.String(),
		Code:               wh.Code,
		Name:               wh.Name,
		Overseas:           wh.Overseas,
		Address:            wh.Address,
		IsActive:           wh.IsActive,
		AllowNegativeStock: wh.AllowNegativeStock,
		DeletionMark:       wh.DeletionMark,
		Version:            wh.Version,
	}
}
