package dashboard

// Summary is the front-page snapshot for a branch over one day.
type Summary struct {
	Date           string         `json:"date"` // YYYY-MM-DD in server local time
	Revenue        int64          `json:"revenue"`
	InvoiceCount   int            `json:"invoice_count"`
	CountsByStatus map[string]int `json:"counts_by_status"`
	AverageTicket  int64          `json:"average_ticket"`
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

// RevenuePoint is one bucket of the revenue-over-time series.
type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}
