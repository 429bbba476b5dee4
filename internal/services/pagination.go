package services

const (
	DefaultPageSize = 20
	MinPageSize     = 5
	MaxPageSize     = 100
)

// Page is pagination metadata for list screens.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

func NewPage(number, size int, total int64) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: pages}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) Prev() int {
	return p.Number - 1
}

func (p Page) Next() int {
	return p.Number + 1
}

func clampPageSize(n int) int {
	if n < MinPageSize {
		return MinPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
