// Package rating keeps a business's rating and review_count equal to the mean and count
// of its reviews.
package rating

// Stats is the count and sum of the ratings of one business's reviews.
type Stats struct {
	Count int64 `bson:"count"`
	Sum   int64 `bson:"sum"`
}

// Summary is what gets written onto the business document.
type Summary struct {
	Rating      float64 `json:"rating" bson:"rating"`
	ReviewCount int64   `json:"review_count" bson:"review_count"`
}

// Summarize turns review stats into a summary. The mean is rounded half-up to one
// decimal in integer arithmetic, so [5,5,4] gives exactly 4.7 and [5,3,4] gives 4.0.
// No reviews gives 0.0 and 0.
func Summarize(s Stats) Summary {
	if s.Count <= 0 {
		return Summary{}
	}
	tenths := (20*s.Sum + s.Count) / (2 * s.Count)
	return Summary{
		Rating:      float64(tenths) / 10,
		ReviewCount: s.Count,
	}
}

// StatsOf computes Stats for a list of ratings.
func StatsOf(ratings ...int) Stats {
	var s Stats
	for _, r := range ratings {
		s.Count++
		s.Sum += int64(r)
	}
	return s
}
