package flow

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_Empty(t *testing.T) {
	l := Pack(nil, 100, 5, 5)
	assert.Empty(t, l.Origins)
	assert.Equal(t, Size{}, l.Size)
	assert.Empty(t, l.Rows)
}

func TestPack_SingleRow(t *testing.T) {
	l := PackWidths([]float64{20, 30, 40}, 10, 100, 5, 4)

	assert.Equal(t, []Point{{0, 0}, {25, 0}, {60, 0}}, l.Origins)
	assert.Equal(t, Size{Width: 100, Height: 10}, l.Size)
	assert.Equal(t, []int{0}, l.Rows)
}

func TestPack_WrapsRows(t *testing.T) {
	// 40 + 5 + 40 = 85 fits, + 5 + 40 = 130 does not.
	l := PackWidths([]float64{40, 40, 40, 40, 40}, 10, 100, 5, 4)

	assert.Equal(t, []Point{
		{0, 0}, {45, 0},
		{0, 14}, {45, 14},
		{0, 28},
	}, l.Origins)
	assert.Equal(t, []int{0, 2, 4}, l.Rows)
	assert.Equal(t, Size{Width: 85, Height: 38}, l.Size)
	assert.Equal(t, 1, l.RowOf(3))
	assert.Equal(t, 2, l.RowOf(4))
}

func TestPack_ExactFit(t *testing.T) {
	l := PackWidths([]float64{50, 45}, 10, 100, 5, 0)
	assert.Equal(t, []int{0}, l.Rows, "50 + 5 + 45 == 100 fits exactly")
}

func TestPack_OversizedItemGetsOwnRow(t *testing.T) {
	l := PackWidths([]float64{10, 250, 10}, 10, 100, 5, 5)

	assert.Equal(t, []int{0, 1, 2}, l.Rows)
	assert.Equal(t, Point{0, 15}, l.Origins[1])
	assert.Equal(t, Point{0, 30}, l.Origins[2])
	assert.Equal(t, 250.0, l.Size.Width)
}

func TestPack_OversizedFirstItem(t *testing.T) {
	l := PackWidths([]float64{250, 10, 10}, 10, 100, 5, 5)

	assert.Equal(t, []int{0, 1}, l.Rows)
	assert.Equal(t, Point{0, 0}, l.Origins[0])
	assert.Equal(t, Point{0, 15}, l.Origins[1])
	assert.Equal(t, Point{15, 15}, l.Origins[2])
}

func TestPack_RowHeightIsMaxOfRow(t *testing.T) {
	l := Pack([]Item{{Width: 30, Height: 10}, {Width: 30, Height: 18}, {Width: 80, Height: 12}}, 100, 5, 2)

	assert.Equal(t, Point{0, 20}, l.Origins[2])
	assert.Equal(t, 32.0, l.Size.Height)
}

// Every row stays within the container unless it holds a single item that is
// itself wider than the container.
func TestPack_RowWidthProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		n := rng.Intn(40)
		container := 50 + rng.Float64()*300
		spacing := rng.Float64() * 10
		widths := make([]float64, n)
		for i := range widths {
			widths[i] = 1 + rng.Float64()*container*1.3
		}

		l := PackWidths(widths, 12, container, spacing, 3)
		require.Len(t, l.Origins, n)

		for r, start := range l.Rows {
			end := n
			if r+1 < len(l.Rows) {
				end = l.Rows[r+1]
			}
			require.Greater(t, end, start, "rows are never empty")

			total := 0.0
			for i := start; i < end; i++ {
				total += widths[i]
				if i > start {
					total += spacing
				}
				assert.Equal(t, l.Origins[start].Y, l.Origins[i].Y, "row items share a y")
			}
			if end-start > 1 {
				assert.LessOrEqual(t, total, container+1e-9, "trial %d row %d", trial, r)
			} else if total > container {
				assert.Equal(t, 0.0, l.Origins[start].X)
			}
		}

		for i := 1; i < n; i++ {
			prev, cur := l.Origins[i-1], l.Origins[i]
			assert.True(t, cur.Y > prev.Y || (cur.Y == prev.Y && cur.X > prev.X), "order preserved")
		}
	}
}
