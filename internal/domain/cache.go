package domain

import "time"

// CacheEntry is one remembered machine translation of a masked source text.
type CacheEntry struct {
	ID          int64     `json:"id"`
	SourceHash  string    `json:"source_hash"`
	SourceText  string    `json:"source_text"`
	SrcLang     string    `json:"src_lang"`
	TgtLang     string    `json:"tgt_lang"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}
