package catalog

import "time"

// Package is a purchasable investment tier.
type Package struct {
	ID          string
	Name        string
	Price       float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PaymentMethod is a destination account users send manual payments to.
type PaymentMethod struct {
	ID            string
	Type          string // e.g. Easypaisa, JazzCash, Bank Account
	AccountNumber string
	AccountName   string
	BankName      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
