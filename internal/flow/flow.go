// Package flow packs variable-width items into left-to-right rows bounded by
// a container width. It is used for set-like content such as skill chips.
package flow

// Point is an item origin relative to the container's top-left corner.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Item is one element to place. Items in a tier usually share a height.
type Item struct {
	Width  float64
	Height float64
}

// Layout is the result of Pack.
type Layout struct {
	Size    Size
	Origins []Point
	// Rows holds, for each row, the index of its first item.
	Rows []int
}

// RowOf returns the row index of item i.
func (l Layout) RowOf(i int) int {
	row := 0
	for r, start := range l.Rows {
		if start > i {
			break
		}
		row = r
	}
	return row
}

// Pack greedily places items in input order. An item joins the current row
// when the row's width plus spacing plus the item fits the container;
// otherwise the row is closed and the item starts the next one. An item wider
// than the container still gets a row of its own, so every item is placed and
// the loop always advances.
func Pack(items []Item, containerWidth, itemSpacing, rowSpacing float64) Layout {
	out := Layout{Origins: make([]Point, len(items))}
	if len(items) == 0 {
		return out
	}

	var (
		y         float64
		rowWidth  float64
		rowHeight float64
		maxWidth  float64
		inRow     int
	)
	out.Rows = append(out.Rows, 0)

	for i, it := range items {
		x := rowWidth
		if inRow > 0 {
			x += itemSpacing
		}
		if inRow > 0 && x+it.Width > containerWidth {
			y += rowHeight + rowSpacing
			maxWidth = max(maxWidth, rowWidth)
			rowWidth, rowHeight, inRow = 0, 0, 0
			x = 0
			out.Rows = append(out.Rows, i)
		}
		out.Origins[i] = Point{X: x, Y: y}
		rowWidth = x + it.Width
		rowHeight = max(rowHeight, it.Height)
		inRow++
	}

	maxWidth = max(maxWidth, rowWidth)
	out.Size = Size{Width: maxWidth, Height: y + rowHeight}
	return out
}

// PackWidths is Pack for items sharing one height.
func PackWidths(widths []float64, height, containerWidth, itemSpacing, rowSpacing float64) Layout {
	items := make([]Item, len(widths))
	for i, w := range widths {
		items[i] = Item{Width: w, Height: height}
	}
	return Pack(items, containerWidth, itemSpacing, rowSpacing)
}
