package paging

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageNumbers(markers []Marker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.String()
	}
	return out
}

func TestPagesScenarios(t *testing.T) {
	tests := []struct {
		total, current int
		want           []string
	}{
		{1, 1, []string{"1"}},
		{5, 3, []string{"2", "3", "4"}},
		{10, 3, []string{"2", "3", "4", "..."}},
		{10, 1, []string{"1", "2", "..."}},
		{10, 10, []string{"9", "10"}},
		{10, 8, []string{"7", "8", "9"}},
		{10, 7, []string{"6", "7", "8", "..."}},
		{2, 1, []string{"1", "2"}},
		{3, 1, []string{"1", "2"}},
		{4, 1, []string{"1", "2", "..."}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, pageNumbers(Pages(tt.total, tt.current)))
		})
	}
}

func TestPagesBounds(t *testing.T) {
	for total := 1; total <= 60; total++ {
		for current := 1; current <= total; current++ {
			markers := Pages(total, current)

			assert.LessOrEqual(t, len(markers), 4)
			assert.Contains(t, markers, Marker{Page: current})
			for _, m := range markers {
				if m.Ellipsis {
					continue
				}
				assert.GreaterOrEqual(t, m.Page, 1, "total=%d current=%d", total, current)
				assert.LessOrEqual(t, m.Page, total, "total=%d current=%d", total, current)
			}
		}
	}
}

func TestPagesClampsInput(t *testing.T) {
	assert.Equal(t, []string{"1"}, pageNumbers(Pages(0, 0)))
	assert.Equal(t, []string{"4", "5"}, pageNumbers(Pages(5, 9)))
}

func TestMarkerJSON(t *testing.T) {
	data, err := json.Marshal(Pages(10, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `[2,3,4,"..."]`, string(data))
}
