package http

import (
	"time"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
)

// Thumbnail DTOs

type ThumbnailDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func ToThumbnailDTO(t *thumbnail.Thumbnail) ThumbnailDTO {
	return ThumbnailDTO{
		ID:        t.ID.String(),
		Title:     t.Title,
		Category:  string(t.Category),
		ImageURL:  t.ImageURL,
		CreatedAt: t.CreatedAt,
	}
}

func ToThumbnailDTOs(thumbs []*thumbnail.Thumbnail) []ThumbnailDTO {
	dtos := make([]ThumbnailDTO, len(thumbs))
	for i, t := range thumbs {
		dtos[i] = ToThumbnailDTO(t)
	}
	return dtos
}

type UpdateThumbnailRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// Critique DTOs

type CritiqueDTO struct {
	EngagementScore int      `json:"engagement_score"`
	ClarityScore    int      `json:"clarity_score"`
	ColorScore      int      `json:"color_score"`
	OverallVerdict  string   `json:"overall_verdict"`
	Suggestions     []string `json:"suggestions"`
	Cached          bool     `json:"cached"`
}

func ToCritiqueDTO(c *thumbnail.Critique, cached bool) CritiqueDTO {
	return CritiqueDTO{
		EngagementScore: c.EngagementScore,
		ClarityScore:    c.ClarityScore,
		ColorScore:      c.ColorScore,
		OverallVerdict:  c.OverallVerdict,
		Suggestions:     c.Suggestions,
		Cached:          cached,
	}
}
