package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"hotelbooking/model"
)

// PanelService manages the homepage carousel images.
type PanelService struct {
	store    Store
	uploader Uploader
	now      func() time.Time
}

func NewPanelService(store Store, uploader Uploader) *PanelService {
	return &PanelService{store: store, uploader: uploader, now: time.Now}
}

func (s *PanelService) List(ctx context.Context) ([]model.PanelImage, error) {
	docs, err := s.store.Find(ctx, model.CollectionHomepage, Query{}.Order("createdAt", false))
	if err != nil {
		return nil, err
	}
	panels := make([]model.PanelImage, 0, len(docs))
	for _, d := range docs {
		panels = append(panels, model.PanelImageFromData(d.ID, d.Data))
	}
	return panels, nil
}

func (s *PanelService) AddURL(ctx context.Context, imageURL string) (model.PanelImage, error) {
	panel := model.PanelImage{
		PanelID:   newID(),
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	if err := s.store.Set(ctx, model.CollectionHomepage, panel.PanelID, panel.ToData()); err != nil {
		return model.PanelImage{}, fmt.Errorf("add panel: %w", err)
	}
	return panel, nil
}

// AddUpload stores the image under panel_images/{unix millis} first.
func (s *PanelService) AddUpload(ctx context.Context, contentType string, r io.Reader) (model.PanelImage, error) {
	objectPath := fmt.Sprintf("panel_images/%d", s.now().UnixMilli())
	url, err := s.uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return model.PanelImage{}, fmt.Errorf("upload panel: %w", err)
	}
	return s.AddURL(ctx, url)
}

func (s *PanelService) Update(ctx context.Context, panelID, imageURL string) error {
	return s.store.Update(ctx, model.CollectionHomepage, panelID, map[string]interface{}{"imageUrl": imageURL})
}

func (s *PanelService) Delete(ctx context.Context, panelID string) error {
	return s.store.Delete(ctx, model.CollectionHomepage, panelID)
}
