package model

import "time"

// Click stream layout on JetStream.
const (
	ClickStreamName     = "CLICKS"
	ClickStreamSubject  = "clicks.events"
	ClickStreamMaxBytes = 100 << 20
	ClickStreamMaxAge   = 30 * 24 * time.Hour
)

// ClickEvent mirrors a recorded click for downstream consumers.
type ClickEvent struct {
	ID        string    `json:"id"`
	LinkID    int64     `json:"link_id"`
	ShortCode string    `json:"short_code"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}

// NewClickEvent builds the event for a click that was stored against link.
func NewClickEvent(id string, link *Link, click *ClickLog) ClickEvent {
	return ClickEvent{
		ID:        id,
		LinkID:    link.ID,
		ShortCode: link.ShortCode,
		IP:        click.IPAddress,
		UserAgent: click.UserAgent,
		Timestamp: click.ClickTime,
	}
}
