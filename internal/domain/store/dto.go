package store

import (
	"time"
)

// CreateItemRequest is the admin payload for a new catalog item
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=500"`
	Type        string `json:"type" validate:"required,item_type"`
	Rarity      string `json:"rarity" validate:"required,rarity"`
	Price       int64  `json:"price" validate:"gte=0"`
	UnlockLevel int    `json:"unlock_level" validate:"omitempty,gte=1"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateItemRequest is a partial admin update
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Type        *string `json:"type" validate:"omitempty,item_type"`
	Rarity      *string `json:"rarity" validate:"omitempty,rarity"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	UnlockLevel *int    `json:"unlock_level" validate:"omitempty,gte=1"`
	IsActive    *bool   `json:"is_active"`
}

// ItemResponse represents a store item in API responses
type ItemResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Type        string    `json:"type"`
	Rarity      string    `json:"rarity"`
	Price       int64     `json:"price"`
	UnlockLevel int       `json:"unlock_level"`
	IsActive    bool      `json:"is_active"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Owned       *bool     `json:"owned,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ItemResponseFromEntity(item *Item) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID.String(),
		Slug:        item.Slug,
		Name:        item.Name,
		Type:        string(item.Type),
		Rarity:      string(item.Rarity),
		Price:       item.Price,
		UnlockLevel: item.UnlockLevel,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
	}
	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	if item.ImageURL.Valid {
		resp.ImageURL = &item.ImageURL.String
	}
	return resp
}

func itemListResponse(items []Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ItemResponseFromEntity(&items[i])
	}
	return out
}

func availableListResponse(items []AvailableItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ItemResponseFromEntity(&items[i].Item)
		owned := items[i].Owned
		out[i].Owned = &owned
	}
	return out
}
