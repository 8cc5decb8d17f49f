package services

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	defaultNotePageLimit = 20
	maxNotePageLimit     = 100
)

// Fields a listing may sort on. Anything else falls back to updated_at.
var noteSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"title":         true,
	"published_at":  true,
	"auto_saved_at": true,
}

func paramString(params map[string]interface{}, key string) string {
	if value, ok := params[key].(string); ok {
		return value
	}
	return ""
}

func paramInt(params map[string]interface{}, key string) (int, bool) {
	switch value := params[key].(type) {
	case int:
		return value, true
	case float64:
		return int(value), true
	case string:
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func paramBool(params map[string]interface{}, key string) (bool, bool) {
	switch value := params[key].(type) {
	case bool:
		return value, true
	case string:
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed, true
		}
	}
	return false, false
}

// parseFilterDate accepts RFC3339 timestamps or plain dates. The second
// return value reports whether the input was date-only, so range ends can be
// made inclusive of the whole day.
func parseFilterDate(value string) (time.Time, bool, bool) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, false, true
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, true, true
	}
	return time.Time{}, false, false
}

// applyNoteFilters translates optional request parameters into AND-combined
// predicates. Unknown or malformed values are ignored rather than rejected.
func applyNoteFilters(query *gorm.DB, params map[string]interface{}) *gorm.DB {
	if search := paramString(params, "search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	if tag := paramString(params, "tag"); tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}

	if draftOnly, ok := paramBool(params, "draft_only"); ok && draftOnly {
		query = query.Where("is_draft = ?", true)
	}

	switch paramString(params, "visibility") {
	case "public":
		query = query.Where("is_public = ?", true)
	case "private":
		query = query.Where("is_public = ?", false)
	case "encrypted":
		query = query.Where("is_encrypted = ?", true)
	}

	if from := paramString(params, "date_from"); from != "" {
		if parsed, _, ok := parseFilterDate(from); ok {
			query = query.Where("notes.created_at >= ?", parsed)
		}
	}

	if to := paramString(params, "date_to"); to != "" {
		if parsed, dateOnly, ok := parseFilterDate(to); ok {
			if dateOnly {
				query = query.Where("notes.created_at < ?", parsed.AddDate(0, 0, 1))
			} else {
				query = query.Where("notes.created_at <= ?", parsed)
			}
		}
	}

	if labelID := paramString(params, "label_id"); labelID != "" {
		query = query.
			Joins("JOIN note_labels ON note_labels.note_id = notes.id").
			Where("note_labels.label_id = ?", labelID)
	}

	if categoryID := paramString(params, "category_id"); categoryID != "" {
		query = query.
			Joins("JOIN note_categories ON note_categories.note_id = notes.id").
			Where("note_categories.category_id = ?", categoryID)
	}

	return query
}

// applyNoteSort orders by the requested field with a deterministic id
// tie-break, so pagination stays stable when the primary field has
// duplicate values.
func applyNoteSort(query *gorm.DB, params map[string]interface{}) *gorm.DB {
	field := paramString(params, "sort_by")
	if !noteSortFields[field] {
		field = "updated_at"
	}

	direction := "DESC"
	if strings.EqualFold(paramString(params, "sort_order"), "asc") {
		direction = "ASC"
	}

	return query.Order("notes." + field + " " + direction).Order("notes.id DESC")
}

func notePagination(params map[string]interface{}) (page, limit, offset int) {
	page = 1
	if value, ok := paramInt(params, "page"); ok && value > 0 {
		page = value
	}

	limit = defaultNotePageLimit
	if value, ok := paramInt(params, "limit"); ok && value > 0 {
		limit = value
	}
	if limit > maxNotePageLimit {
		limit = maxNotePageLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset
}
