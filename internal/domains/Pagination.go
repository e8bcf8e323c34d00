package domains

type Pagination struct {
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	FirstPage   int `json:"firstPage"`
}

func NewPagination(total, page, limit int) Pagination {
	lastPage := 1
	if limit > 0 {
		lastPage = (total + limit - 1) / limit
	}
	if lastPage < 1 {
		lastPage = 1
	}
	perPage := limit
	if total < perPage {
		perPage = total
	}
	return Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
		FirstPage:   1,
	}
}
