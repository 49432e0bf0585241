// Package domain defines the persistence model for book recommendations.
// The type is mapped with GORM and forms the core data layer of the
// book feed application.
package domain

import "time"

// Book represents a single recommended book in the feed: a title, an
// outbound marketplace link, and a link to the endorsement post that is
// embedded on the card.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), assigned by the server.
//   - Title: human-readable book title, always non-empty.
//   - MarketplaceURL: absolute URL to the product page, always non-empty.
//   - EndorsementURL: absolute URL to the social post, always non-empty.
//   - CatalogID: 10-character product code derived from MarketplaceURL at
//     write time; empty when no known URL shape matched. Never edited
//     independently; every create/update recomputes it.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM; CreatedAt is
//     immutable and drives the newest-first feed ordering.
type Book struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Title          string    `json:"title"           gorm:"type:varchar(255);not null"`
	MarketplaceURL string    `json:"marketplace_url" gorm:"type:text;not null"`
	EndorsementURL string    `json:"endorsement_url" gorm:"type:text;not null"`
	CatalogID      string    `json:"catalog_id"      gorm:"type:varchar(16);not null;default:''"`
	CreatedAt      time.Time `json:"created_at"      gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for Book.
func (Book) TableName() string { return "books" }
