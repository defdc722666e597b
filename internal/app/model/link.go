package model

import "time"

// Link is a stored short-code mapping together with its aggregate click metadata.
type Link struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	ShortCode     string     `json:"short_code" gorm:"column:short_code;size:16;not null;uniqueIndex:idx_links_short_code"`
	OriginalURL   string     `json:"original_url" gorm:"column:original_url;type:text;not null"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	ClickCount    int64      `json:"click_count" gorm:"not null;default:0"`
	LastClickedAt *time.Time `json:"last_clicked_at"`
	Title         *string    `json:"title" gorm:"type:text"`

	ClickLogs []ClickLog `json:"-" gorm:"foreignKey:URLID;constraint:OnDelete:CASCADE"`
}

// ClickLog records a single redirect through a Link. Rows are never updated.
type ClickLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	URLID     int64     `json:"url_id" gorm:"column:url_id;not null;index"`
	ClickTime time.Time `json:"click_time" gorm:"column:click_time;not null"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	IPAddress string    `json:"ip_address" gorm:"column:ip_address;type:text"`
}

// LinkDetail is a link with its click history, newest first.
type LinkDetail struct {
	Link      Link       `json:"url"`
	ClickLogs []ClickLog `json:"click_logs"`
}
