package models

import (
	"math"
	"sort"
)

// AverageRating returns the arithmetic mean of the review ratings rounded to
// one decimal, or 0 when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return roundToOneDecimal(float64(sum) / float64(len(reviews)))
}

// OwnerRating is the mean of each owned project's rating rounded to one
// decimal, or 0 when the user owns no projects. Unrated projects count as 0,
// matching the per-project rating rule.
func OwnerRating(projects []Project) float64 {
	if len(projects) == 0 {
		return 0
	}
	sum := 0.0
	for _, project := range projects {
		sum += project.Rating()
	}
	return roundToOneDecimal(sum / float64(len(projects)))
}

// SortFeatured orders projects by rating descending, breaking ties by the
// most recent upload. The caller filters out rejected projects first.
func SortFeatured(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		ri, rj := projects[i].Rating(), projects[j].Rating()
		if ri != rj {
			return ri > rj
		}
		return projects[i].UploadedAt.After(projects[j].UploadedAt)
	})
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
