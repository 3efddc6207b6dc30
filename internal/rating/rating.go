// AngelaMos | 2026
// rating.go

package rating

import "math"

const (
	MinStars = 1
	MaxStars = 5
)

// Distribution counts ratings per star value. Every key 1..5 is always
// present so clients never have to treat a missing key as zero.
type Distribution map[int]int

func NewDistribution() Distribution {
	d := make(Distribution, MaxStars)
	for s := MinStars; s <= MaxStars; s++ {
		d[s] = 0
	}
	return d
}

// Add records n ratings of the given star value. Out-of-range values are
// ignored.
func (d Distribution) Add(stars, n int) {
	if stars < MinStars || stars > MaxStars {
		return
	}
	d[stars] += n
}

func (d Distribution) Total() int {
	total := 0
	for s := MinStars; s <= MaxStars; s++ {
		total += d[s]
	}
	return total
}

func (d Distribution) Average() float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}

	sum := 0
	for s := MinStars; s <= MaxStars; s++ {
		sum += s * d[s]
	}
	return RoundedMean(sum, total)
}

// RoundedMean is sum/count rounded to one decimal, half away from zero. It
// rounds the exact ratio sum*10/count, so half-way means such as 4.35 go up
// the same way Postgres rounds a numeric average.
func RoundedMean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum*10)/float64(count)) / 10
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type Summary struct {
	AverageRating      float64      `json:"averageRating"`
	TotalReviews       int          `json:"totalReviews"`
	RatingDistribution Distribution `json:"ratingDistribution"`
}

func Summarize(d Distribution) Summary {
	if d == nil {
		d = NewDistribution()
	}
	return Summary{
		AverageRating:      d.Average(),
		TotalReviews:       d.Total(),
		RatingDistribution: d,
	}
}

// FromRatings builds a distribution from individual star values.
func FromRatings(ratings ...int) Distribution {
	d := NewDistribution()
	for _, r := range ratings {
		d.Add(r, 1)
	}
	return d
}
