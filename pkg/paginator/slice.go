package paginator

// PaginateSlice returns the page of items selected by query.
func PaginateSlice[T any](items []T, query PaginateQuery) ([]T, Paginator) {
	query.Adjust()
	total := int64(len(items))
	start := query.Offset()
	if start >= total {
		return []T{}, Paginator{Total: total, PerPage: query.Limit, CurrentPage: query.Page}
	}
	end := start + query.Limit
	if end > total {
		end = total
	}
	page := items[start:end]
	return page, Paginator{
		Total:       total,
		Count:       int64(len(page)),
		PerPage:     query.Limit,
		CurrentPage: query.Page,
	}
}
