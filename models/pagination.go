package models

// NotePage is one page of a filtered note listing. Total is computed by a
// count query run in the same transaction as the page query.
type NotePage struct {
	Notes   []Note `json:"notes"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}

// NoteStats summarizes an owner's notes for the overview endpoint.
type NoteStats struct {
	Total     int64 `json:"total"`
	Drafts    int64 `json:"drafts"`
	Published int64 `json:"published"`
	Public    int64 `json:"public"`
	Encrypted int64 `json:"encrypted"`
}
