package repository

// Page bounds a listing query.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageLimit applies when the caller gives no limit.
const DefaultPageLimit = 10

// Normalize fills in the default limit and clamps negative offsets.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
