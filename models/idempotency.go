package models

import "time"

// IdempotencyKey stores the first successful response for a given request hash.
type IdempotencyKey struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Key            string     `json:"key" gorm:"size:128;uniqueIndex"` // header value
	RequestHash    string     `json:"request_hash" gorm:"size:64"`     // sha256 of method|path|body|subject
	Method         string     `json:"method" gorm:"size:10"`
	Path           string     `json:"path" gorm:"size:255"`
	Subject        string     `json:"subject" gorm:"size:128"`
	ResponseStatus int        `json:"response_status"` // 0 => not completed yet
	ContentType    string     `json:"content_type" gorm:"size:128"`
	Disposition    string     `json:"disposition" gorm:"size:255"`
	ResponseBody   []byte     `json:"-"` // raw archive bytes
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}
