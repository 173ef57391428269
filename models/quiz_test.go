package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassMark_Passed(t *testing.T) {
	tests := []struct {
		name  string
		mark  PassMark
		score int
		total int
		want  bool
	}{
		{name: "count below", mark: PassMark{Unit: PassMarkCount, Value: 3}, score: 2, total: 5, want: false},
		{name: "count equal passes", mark: PassMark{Unit: PassMarkCount, Value: 3}, score: 3, total: 5, want: true},
		{name: "count zero always passes", mark: PassMark{Unit: PassMarkCount, Value: 0}, score: 0, total: 4, want: true},
		{name: "percent below", mark: PassMark{Unit: PassMarkPercent, Value: 70}, score: 2, total: 3, want: false},
		{name: "percent equal passes", mark: PassMark{Unit: PassMarkPercent, Value: 70}, score: 7, total: 10, want: true},
		{name: "percent full", mark: PassMark{Unit: PassMarkPercent, Value: 100}, score: 4, total: 4, want: true},
		{name: "percent is not a count", mark: PassMark{Unit: PassMarkPercent, Value: 3}, score: 0, total: 10, want: false},
		{name: "count is not a percent", mark: PassMark{Unit: PassMarkCount, Value: 70}, score: 10, total: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mark.Passed(tt.score, tt.total))
		})
	}
}

func TestQuiz_Threshold(t *testing.T) {
	assert.Equal(t, PassMark{Unit: PassMarkPercent, Value: 60}, Quiz{PassMark: 60, PassMarkUnit: PassMarkPercent}.Threshold())
	assert.Equal(t, PassMark{Unit: PassMarkCount, Value: 2}, Quiz{PassMark: 2, PassMarkUnit: PassMarkCount}.Threshold())
	// rows written before units existed read as counts
	assert.Equal(t, PassMark{Unit: PassMarkCount, Value: 2}, Quiz{PassMark: 2}.Threshold())
}

func TestProgress_IsComplete(t *testing.T) {
	assert.False(t, Progress{Percentage: 99.9}.IsComplete())
	assert.True(t, Progress{Percentage: 100}.IsComplete())
}
