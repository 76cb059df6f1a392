package model

import "github.com/shopspring/decimal"

// StatData is one slice of a distribution chart.
type StatData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Dashboard struct {
	TotalBooks      int                 `json:"total_books"`
	TotalUsers      int                 `json:"total_users"`
	ActiveLoans     int                 `json:"active_loans"`
	BorrowedToday   int                 `json:"borrowed_today"`
	ReturnedToday   int                 `json:"returned_today"`
	OverdueRecords  []*BorrowRecordView `json:"overdue_records"`
	OutstandingFine decimal.Decimal     `json:"outstanding_fine"`
	Categories      []StatData          `json:"categories"`
}

// LoanSummary is a reader's own view of their loans.
type LoanSummary struct {
	ActiveLoans    int                 `json:"active_loans"`
	MaxBorrowLimit int                 `json:"max_borrow_limit"`
	OverdueLoans   int                 `json:"overdue_loans"`
	TotalFine      decimal.Decimal     `json:"total_fine"`
	Records        []*BorrowRecordView `json:"records"`
}
