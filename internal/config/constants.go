package config

import "time"

const (
	// Transactions per history page
	TransactionsPerPage = 10

	// Recent transactions shown on the profile view
	ProfileRecentTransactions = 6

	// Server timeouts
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 30 * time.Second
	ShutdownTimeout = 10 * time.Second

	// CSV export timestamp layouts
	ExportTimeLayout     = "2006-01-02 15:04:05"
	ExportFilenameLayout = "20060102_150405"

	// Date filter layout for the transaction query
	FilterDateLayout = "2006-01-02"
)
