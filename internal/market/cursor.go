package market

// PageSize is the fixed number of listings requested per page.
const PageSize = 6

// Cursor is the (search text, page number) pair that parameterizes a
// listing query.
type Cursor struct {
	Search string
	Page   int
}

// WithSearch returns a cursor for the new search text. Changing the search
// always resets the page to 1.
func (c Cursor) WithSearch(search string) Cursor {
	return Cursor{Search: search, Page: 1}
}

// WithPage returns a cursor for the requested page, clamped to >= 1.
func (c Cursor) WithPage(page int) Cursor {
	if page < 1 {
		page = 1
	}
	return Cursor{Search: c.Search, Page: page}
}

// ClampTo bounds the page to the server-reported total. A non-positive
// total leaves the cursor unchanged.
func (c Cursor) ClampTo(totalPages int) Cursor {
	if totalPages > 0 && c.Page > totalPages {
		c.Page = totalPages
	}
	if c.Page < 1 {
		c.Page = 1
	}
	return c
}
