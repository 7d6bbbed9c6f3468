package model

import "time"

type Comment struct {
	CommentID string    `json:"id"`
	UserID    string    `json:"userId"`
	HotelID   string    `json:"hotelId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Comment) ToData() map[string]interface{} {
	return map[string]interface{}{
		"userId":    c.UserID,
		"hotelId":   c.HotelID,
		"content":   c.Content,
		"createdAt": c.CreatedAt,
	}
}

func CommentFromData(id string, data map[string]interface{}) Comment {
	return Comment{
		CommentID: id,
		UserID:    getString(data, "userId"),
		HotelID:   getString(data, "hotelId"),
		Content:   getString(data, "content"),
		CreatedAt: getTime(data, "createdAt"),
	}
}
