// AngelaMos | 2026
// rating_test.go

package rating

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution_Average(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "no reviews", ratings: nil, want: 0},
		{name: "single review", ratings: []int{4}, want: 4.0},
		{name: "three and five", ratings: []int{3, 5}, want: 4.0},
		{name: "rounds to one decimal", ratings: []int{4, 4, 5}, want: 4.3},
		{name: "keeps exact halves", ratings: []int{1, 2}, want: 1.5},
		{name: "out of range ignored", ratings: []int{0, 6, 5}, want: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromRatings(tt.ratings...)
			assert.InDelta(t, tt.want, d.Average(), 1e-9)
		})
	}
}

func TestSummarize_DistributionHasEveryStar(t *testing.T) {
	s := Summarize(FromRatings(3, 5))

	assert.Equal(t, 2, s.TotalReviews)
	assert.InDelta(t, 4.0, s.AverageRating, 1e-9)
	assert.Equal(t, Distribution{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}, s.RatingDistribution)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"averageRating":4,"totalReviews":2,"ratingDistribution":{"1":0,"2":0,"3":1,"4":0,"5":1}}`,
		string(raw),
	)
}

func TestSummarize_Nil(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalReviews)
	assert.Zero(t, s.AverageRating)
	assert.Len(t, s.RatingDistribution, 5)
}

func TestRound1(t *testing.T) {
	assert.InDelta(t, 3.7, Round1(3.666), 1e-9)
	assert.InDelta(t, 3.3, Round1(3.333), 1e-9)
	assert.InDelta(t, 2.5, Round1(2.46), 1e-9)
}

func TestRoundedMean_HalfwayRoundsUp(t *testing.T) {
	tests := []struct {
		name       string
		sum, count int
		want       float64
	}{
		{name: "1.65", sum: 33, count: 20, want: 1.7},
		{name: "3.45", sum: 69, count: 20, want: 3.5},
		{name: "4.35", sum: 87, count: 20, want: 4.4},
		{name: "1.15", sum: 23, count: 20, want: 1.2},
		{name: "below half", sum: 13, count: 3, want: 4.3},
		{name: "no reviews", sum: 0, count: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundedMean(tt.sum, tt.count), 1e-9)
		})
	}
}

func TestDistribution_AverageHalfway(t *testing.T) {
	d := NewDistribution()
	d.Add(4, 13)
	d.Add(5, 7)

	assert.Equal(t, 20, d.Total())
	assert.InDelta(t, 4.4, d.Average(), 1e-9)
}
