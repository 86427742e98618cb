package library

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects one slice of a result set. Page numbers are zero-based.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps the requested page parameters into the allowed range:
// negative page numbers become 0, a non-positive size falls back to the
// default, and oversized requests are capped.
func NewPageRequest(number int, size int) PageRequest {
	if number < 0 {
		number = 0
	}

	if size <= 0 {
		size = DefaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	return PageRequest{Number: number, Size: size}
}

// Offset returns the number of rows to skip for this page.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// Page is one slice of a result set together with the request that produced
// it and the total match count across all pages.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages derives the page count from the total element count.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}

	pages := p.TotalElements / int64(p.Size)
	if p.TotalElements%int64(p.Size) != 0 {
		pages++
	}

	return int(pages)
}

// EmptyPage returns a page with no content echoing the request parameters.
func EmptyPage[T any](request PageRequest) Page[T] {
	return Page[T]{
		Content:       []T{},
		Number:        request.Number,
		Size:          request.Size,
		TotalElements: 0,
	}
}
