package model

import "time"

// PanelImage is one slide of the homepage carousel.
type PanelImage struct {
	PanelID   string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p PanelImage) ToData() map[string]interface{} {
	return map[string]interface{}{
		"imageUrl":  p.ImageURL,
		"createdAt": p.CreatedAt,
	}
}

func PanelImageFromData(id string, data map[string]interface{}) PanelImage {
	return PanelImage{
		PanelID:   id,
		ImageURL:  getString(data, "imageUrl"),
		CreatedAt: getTime(data, "createdAt"),
	}
}
