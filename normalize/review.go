package normalize

import (
	"encoding/json"

	"github.com/vasastore/storefront-client/models"
)

var reviewListKeys = []string{
	"reviews", "recent_reviews", "recentReviews", "data", "recent",
}

// Reviews resolves any of the backend's review-list shapes into a flat
// sequence. Returns an empty slice when no array can be found; never fails.
func Reviews(raw json.RawMessage) []models.Review {
	list := findList(decode(raw), reviewListKeys)
	reviews := make([]models.Review, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			reviews = append(reviews, Review(m))
		}
	}
	return reviews
}

// Review maps one backend review object into the canonical shape.
func Review(m map[string]any) models.Review {
	r := models.Review{
		ID:          integer(m, "review_id", "id"),
		ProductID:   integer(m, "product_id", "perfume_id"),
		ProductName: str(m, "product_name", "perfume_name"),
		UserID:      integer(m, "user_id"),
		UserName:    str(m, "user_name", "username"),
		Rating:      integer(m, "rating"),
		Comment:     str(m, "comment", "content"),
	}
	if t := timestamp(m, "created_at"); t != nil {
		r.CreatedAt = *t
	}
	return r
}

// ReviewAggregate is the authoritative rating summary for one product,
// extracted from a review-list response when the backend provides it and
// computed from the listed reviews when it does not.
type ReviewAggregate struct {
	Rating      float64
	ReviewCount int
}

// Aggregate pulls the rating summary out of a review-list payload.
func Aggregate(raw json.RawMessage, reviews []models.Review) ReviewAggregate {
	agg := ReviewAggregate{ReviewCount: len(reviews)}
	if agg.ReviewCount > 0 {
		var sum float64
		for _, r := range reviews {
			sum += float64(r.Rating)
		}
		agg.Rating = sum / float64(agg.ReviewCount)
	}

	m, ok := decode(raw).(map[string]any)
	if !ok {
		return agg
	}
	for _, key := range []string{"product", "perfume"} {
		if inner, ok := m[key].(map[string]any); ok {
			m = inner
			break
		}
	}
	if rating, ok := num(m, "average_rating", "global_average_rating", "rating"); ok {
		agg.Rating = rating
	}
	if total, ok := num(m, "total_reviews"); ok {
		agg.ReviewCount = int(total)
	}
	return agg
}
