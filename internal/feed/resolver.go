package feed

import "github.com/bilgisen/titan/internal/models"

// Resolve picks the record to show on a detail page. The first record whose
// identifier equals id wins. With no id, demo mode falls back to the first
// record; otherwise nothing matches.
func Resolve(records []models.FeedRecord, id string, demo bool) (models.FeedRecord, bool) {
	if id == "" {
		if !demo || len(records) == 0 {
			return nil, false
		}
		return records[0], true
	}

	for _, rec := range records {
		if rec.ID() == id {
			return rec, true
		}
	}
	return nil, false
}
