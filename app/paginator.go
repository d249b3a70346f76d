package app

import (
	"strconv"
	"strings"
)

// Paginator splits Count items into pages of PerPage. An empty collection still has one
// (empty) page.
type Paginator struct {
	Count   int
	PerPage int
}

func (p *Paginator) NumPages() int {
	if p.Count <= 0 || p.PerPage <= 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// GetPage resolves a raw ?page= value to a valid page number. Non-numeric input gives
// the first page and out-of-range numbers clamp to the nearest page.
func (p *Paginator) GetPage(raw string) int {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		return 1
	}
	if last := p.NumPages(); number > last {
		return last
	}
	return number
}

// Offset of the first item on page number, assumed valid.
func (p *Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}
