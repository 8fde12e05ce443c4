package model

import "time"

// Product is a catalog entry from the product database.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductWithVideo is a catalog entry enriched with its resolved embed URL.
// VideoURL is nil when the product has no video.
type ProductWithVideo struct {
	Product
	VideoURL *string `json:"videoUrl"`
}
