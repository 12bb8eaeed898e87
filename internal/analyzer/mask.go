package analyzer

import "fmt"

// VisitedMask records which pixels of a W×H grid already belong to a region.
// A mask belongs to exactly one scan and is dropped when the scan returns.
type VisitedMask struct {
	w, h    int
	visited []bool
}

func NewVisitedMask(w, h int) *VisitedMask {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("analyzer: negative mask size %dx%d", w, h))
	}
	return &VisitedMask{w: w, h: h, visited: make([]bool, w*h)}
}

func (m *VisitedMask) IsVisited(x, y int) bool {
	return m.visited[m.index(x, y)]
}

func (m *VisitedMask) MarkVisited(x, y int) {
	m.visited[m.index(x, y)] = true
}

func (m *VisitedMask) index(x, y int) int {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		panic(fmt.Sprintf("analyzer: mask access (%d,%d) outside %dx%d", x, y, m.w, m.h))
	}
	return y*m.w + x
}
