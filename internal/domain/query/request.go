package query

// Request is a catalog search: filters plus an optional date range on the sensing
// start. Start and End are already in catalog syntax; an empty Start means no date
// constraint.
type Request struct {
	Filters *Filters
	Start   string
	End     string
	OrderBy string
	Limit   int // 0 = unlimited
}

// Query renders the full catalog query string.
func (r Request) Query() string {
	f := NewFilters()
	if r.Filters != nil {
		f = r.Filters.Clone()
	}
	if r.Start != "" {
		end := r.End
		if end == "" {
			end = DefaultEnd
		}
		f.Set(KeyDate, Range(r.Start, end))
	}
	if f.Len() == 0 {
		return "*"
	}
	return f.String()
}
