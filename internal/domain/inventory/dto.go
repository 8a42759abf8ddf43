package inventory

import (
	"time"

	"github.com/learnhub/credits-api/internal/domain/store"
)

// UpdateProfileRequest is the PATCH /profile body
type UpdateProfileRequest struct {
	Bio          *string `json:"bio"`
	ProfileColor *string `json:"profile_color" validate:"omitempty,hexcolor"`
	CustomTitle  *string `json:"custom_title"`
}

// OwnedItemResponse represents an inventory entry in API responses
type OwnedItemResponse struct {
	Item        store.ItemResponse `json:"item"`
	PurchasedAt time.Time          `json:"purchased_at"`
	IsEquipped  bool               `json:"is_equipped"`
}

func inventoryResponse(items []OwnedItem) []OwnedItemResponse {
	out := make([]OwnedItemResponse, len(items))
	for i := range items {
		out[i] = OwnedItemResponse{
			Item:        store.ItemResponseFromEntity(&items[i].Item),
			PurchasedAt: items[i].PurchasedAt,
			IsEquipped:  items[i].IsEquipped,
		}
	}
	return out
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	StudentID        string    `json:"student_id"`
	BannerID         *string   `json:"banner_id"`
	AvatarFrameID    *string   `json:"avatar_frame_id"`
	ThemeID          *string   `json:"theme_id"`
	TitleID          *string   `json:"title_id"`
	EquippedBadgeIDs []string  `json:"equipped_badge_ids"`
	Bio              string    `json:"bio"`
	ProfileColor     string    `json:"profile_color"`
	CustomTitle      string    `json:"custom_title"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ProfileResponseFromEntity(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		StudentID:        p.StudentID.String(),
		EquippedBadgeIDs: []string(p.EquippedBadgeIDs),
		Bio:              p.Bio,
		ProfileColor:     p.ProfileColor,
		CustomTitle:      p.CustomTitle,
		UpdatedAt:        p.UpdatedAt,
	}
	if resp.EquippedBadgeIDs == nil {
		resp.EquippedBadgeIDs = []string{}
	}
	if p.BannerID.Valid {
		s := p.BannerID.UUID.String()
		resp.BannerID = &s
	}
	if p.AvatarFrameID.Valid {
		s := p.AvatarFrameID.UUID.String()
		resp.AvatarFrameID = &s
	}
	if p.ThemeID.Valid {
		s := p.ThemeID.UUID.String()
		resp.ThemeID = &s
	}
	if p.TitleID.Valid {
		s := p.TitleID.UUID.String()
		resp.TitleID = &s
	}
	return resp
}
