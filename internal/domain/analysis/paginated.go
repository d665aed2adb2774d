package analysis

// PaginatedResult represents a paginated history response with data and metadata
type PaginatedResult struct {
	Data  []*Summary `json:"data"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int64      `json:"total"`
	Pages int        `json:"pages"`
}
