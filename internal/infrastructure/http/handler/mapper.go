package handler

import (
	"time"

	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

// Wire DTOs. Timestamps serialize as RFC3339 with millisecond precision so
// the autosave version token survives a round trip unchanged.

type listSummaryDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	ItemCount   int     `json:"itemCount"`
	ActivatedAt *string `json:"activatedAt,omitempty"`
	IsEditing   bool    `json:"isEditing"`
	UpdatedAt   string  `json:"updatedAt"`
}

type listDetailDTO struct {
	listSummaryDTO
	CreatedAt string    `json:"createdAt"`
	Items     []itemDTO `json:"items"`
}

type itemDTO struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Checked bool    `json:"checked"`
	Note    *string `json:"note,omitempty"`

	Source          string   `json:"source,omitempty"`
	SourceProductID string   `json:"sourceProductId,omitempty"`
	Thumbnail       *string  `json:"thumbnail,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	UnitSize        *float64 `json:"unitSize,omitempty"`
	UnitFormat      *string  `json:"unitFormat,omitempty"`
	UnitPrice       *float64 `json:"unitPrice,omitempty"`
	IsApproxSize    *bool    `json:"isApproxSize,omitempty"`

	UpdatedAt string `json:"updatedAt"`
}

type autosaveDraftDTO struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	IsEditing           bool      `json:"isEditing"`
	EditingTargetListID *string   `json:"editingTargetListId,omitempty"`
	Items               []itemDTO `json:"items"`
	UpdatedAt           string    `json:"updatedAt"`
}

type productDTO struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Name         string   `json:"name"`
	Thumbnail    *string  `json:"thumbnail,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	UnitSize     *float64 `json:"unitSize,omitempty"`
	UnitFormat   *string  `json:"unitFormat,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	IsApproxSize *bool    `json:"isApproxSize,omitempty"`
}

func formatTime(t time.Time) string {
	return response.FormatTimestamp(t)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func summaryDTO(s *list.ListSummary) listSummaryDTO {
	return listSummaryDTO{
		ID:          s.ID,
		Title:       s.Title,
		Status:      string(s.Status),
		ItemCount:   s.ItemCount,
		ActivatedAt: formatTimePtr(s.ActivatedAt),
		IsEditing:   s.IsEditing,
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

func detailDTO(d *list.ListDetail) listDetailDTO {
	return listDetailDTO{
		listSummaryDTO: summaryDTO(&d.ListSummary),
		CreatedAt:      formatTime(d.CreatedAt),
		Items:          itemDTOs(d.Items),
	}
}

func itemDTOs(items []list.ItemResult) []itemDTO {
	out := make([]itemDTO, len(items))
	for i := range items {
		out[i] = mapItemDTO(&items[i])
	}
	return out
}

func mapItemDTO(it *list.ItemResult) itemDTO {
	return itemDTO{
		ID:              it.ID,
		Kind:            string(it.Kind),
		Name:            it.Name,
		Qty:             it.Qty,
		Checked:         it.Checked,
		Note:            it.Note,
		Source:          it.Source,
		SourceProductID: it.SourceProductID,
		Thumbnail:       it.Thumbnail,
		Price:           it.Price,
		UnitSize:        it.UnitSize,
		UnitFormat:      it.UnitFormat,
		UnitPrice:       it.UnitPrice,
		IsApproxSize:    it.IsApproxSize,
		UpdatedAt:       formatTime(it.UpdatedAt),
	}
}

func draftDTO(d *list.AutosaveDraft) autosaveDraftDTO {
	return autosaveDraftDTO{
		ID:                  d.ID,
		Title:               d.Title,
		IsEditing:           d.IsEditing,
		EditingTargetListID: d.EditingTargetListID,
		Items:               itemDTOs(d.Items),
		UpdatedAt:           formatTime(d.UpdatedAt),
	}
}

func mapProductDTO(p *domain.ProductSnapshot) productDTO {
	return productDTO{
		ID:           p.ID,
		Source:       p.Source,
		Name:         p.Name,
		Thumbnail:    p.Thumbnail,
		Price:        p.Price,
		UnitSize:     p.UnitSize,
		UnitFormat:   p.UnitFormat,
		UnitPrice:    p.UnitPrice,
		IsApproxSize: p.IsApproxSize,
	}
}
