package models

// Share is one slice of a categorical breakdown.
type Share struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ShareResponse is returned by GET /v1/shares/{field}?format=json
type ShareResponse struct {
	Field  string  `json:"field"`
	Title  string  `json:"title"`
	Total  int     `json:"total"`
	Shares []Share `json:"shares"`
}
