package database

import (
	"testing"

	"github.com/mamosta-app/api/model"
)

func TestComputeVisibleAggregate(t *testing.T) {
	tests := []struct {
		name      string
		reviews   []model.Review
		wantAvg   float64
		wantTotal int
	}{
		{
			name:      "no reviews",
			reviews:   nil,
			wantAvg:   0,
			wantTotal: 0,
		},
		{
			name: "all visible",
			reviews: []model.Review{
				{Rating: 5},
				{Rating: 4},
				{Rating: 3},
			},
			wantAvg:   4,
			wantTotal: 3,
		},
		{
			name: "hidden reviews excluded from both figures",
			reviews: []model.Review{
				{Rating: 5},
				{Rating: 1, IsHidden: true},
				{Rating: 4},
			},
			wantAvg:   4.5,
			wantTotal: 2,
		},
		{
			name: "all hidden resets to zero",
			reviews: []model.Review{
				{Rating: 5, IsHidden: true},
				{Rating: 2, IsHidden: true},
			},
			wantAvg:   0,
			wantTotal: 0,
		},
		{
			name: "average rounded to two decimals",
			reviews: []model.Review{
				{Rating: 5},
				{Rating: 4},
				{Rating: 4},
			},
			wantAvg:   4.33,
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, total := ComputeVisibleAggregate(tt.reviews)
			if avg != tt.wantAvg {
				t.Errorf("avg = %v, want %v", avg, tt.wantAvg)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %v, want %v", total, tt.wantTotal)
			}
		})
	}
}
