package repository

import "strconv"

// Page describes one bounded slice of an ordered result set.
// Indexes are 1-based; StartIndex/EndIndex are 0 for an empty set.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	StartIndex int   `json:"start_index"`
	EndIndex   int   `json:"end_index"`
}

// Paginate resolves the page that will actually be served for a request.
// Page numbers are 1-indexed; a number below 1 clamps to the first page and a
// number beyond the end clamps to the last instead of erroring.
func Paginate(number, size int, total int64) Page {
	if size < 1 {
		size = 1
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := 0
	end := 0
	if total > 0 {
		start = (number-1)*size + 1
		end = (number-1)*size + size
		if int64(end) > total {
			end = int(total)
		}
	}

	return Page{
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
		StartIndex: start,
		EndIndex:   end,
	}
}

// Offset returns the store offset of the page's first item.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage converts a raw query parameter into a page number.
// Missing or invalid values default to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
