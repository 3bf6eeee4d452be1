package listview

// Default pager settings.
const (
	DefaultRowsPerPage = 10
)

// DefaultPageSizes are the rows-per-page choices offered by the pager.
var DefaultPageSizes = []int{5, 10, 25, 50}

// Paginate returns list[page*size : page*size+size] clipped to the list.
// Out-of-range pages yield an empty slice.
func Paginate[T any](list []T, page, size int) []T {
	if pageOutOfRange(len(list), page, size) {
		return []T{}
	}

	start := page * size

	end := len(list)
	if size < end-start {
		end = start + size
	}

	out := make([]T, end-start)
	copy(out, list[start:end])

	return out
}

// pageOutOfRange reports whether page holds no rows of a list of n items.
// It divides rather than multiplies so huge page numbers cannot overflow.
func pageOutOfRange(n, page, size int) bool {
	return page < 0 || size <= 0 || n == 0 || page > (n-1)/size
}

// PageCount is the number of pages needed for total rows.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}

	return (total + size - 1) / size
}

// Paginator holds the page window state.
type Paginator struct {
	Page        int
	RowsPerPage int
}

// ChangePage moves to page. Bounds are not checked here.
func (p *Paginator) ChangePage(page int) {
	if page < 0 {
		page = 0
	}

	p.Page = page
}

// ChangeRowsPerPage sets the window size and always returns to page 0.
func (p *Paginator) ChangeRowsPerPage(size int) {
	if size > 0 {
		p.RowsPerPage = size
	}

	p.Page = 0
}

// Reset returns to the first page.
func (p *Paginator) Reset() {
	p.Page = 0
}

// Start is the offset of the first row on the current page.
func (p Paginator) Start() int {
	return p.Page * p.RowsPerPage
}
