package models

import "time"

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

type FavoriteRequest struct {
	ProductID int64 `json:"productId"`
}
