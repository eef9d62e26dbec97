package catalog

import "github.com/safar/armigera-store/internal/models"

const DefaultPageSize = 12

// Page is the visible prefix of a query result.
type Page struct {
	Items   []models.Product `json:"items"`
	Shown   int              `json:"shown"`
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
}

// Pager tracks how many results are visible. It starts with one page and
// grows by one page per LoadMore.
type Pager struct {
	size  int
	pages int
}

func NewPager(size int) *Pager {
	if size < 1 {
		size = DefaultPageSize
	}
	return &Pager{size: size, pages: 1}
}

func (p *Pager) PageSize() int { return p.size }

// Limit is the number of results currently visible.
func (p *Pager) Limit() int { return p.size * p.pages }

func (p *Pager) LoadMore() { p.pages++ }

// Reset goes back to the first page. Callers reset when criteria change.
func (p *Pager) Reset() { p.pages = 1 }

func (p *Pager) Page(items []models.Product) Page {
	shown := min(p.Limit(), len(items))
	return Page{
		Items:   items[:shown],
		Shown:   shown,
		Total:   len(items),
		HasMore: shown < len(items),
	}
}
