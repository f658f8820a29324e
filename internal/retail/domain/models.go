package domain

import "github.com/shopspring/decimal"

// Customer is owned by the remote customer service; read-only here.
type Customer struct {
	ID        int    `json:"customerId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Product is owned by the remote product service; read-only here.
type Product struct {
	ID          int             `json:"productId"`
	Name        string          `json:"productName"`
	Description string          `json:"productDescription"`
	ListPrice   decimal.Decimal `json:"listPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
}

// Inventory is a stock snapshot read during validation. Quantity reflects
// stock at read time only; there is no reservation.
type Inventory struct {
	ID        int `json:"inventoryId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// LineItem is one requested position of an invoice submission.
type LineItem struct {
	InventoryID int             `json:"inventoryId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// InvoiceRequest is the inbound purchase submission. It exists only for the
// duration of a request; the invoice service assigns all durable identity.
type InvoiceRequest struct {
	CustomerID int        `json:"customerId"`
	Items      []LineItem `json:"invoiceItems"`
}

// InvoiceItem is a persisted line item with identity assigned by the invoice
// service.
type InvoiceItem struct {
	ID          int             `json:"invoiceItemId"`
	InvoiceID   int             `json:"invoiceId"`
	InventoryID int             `json:"inventoryId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Invoice is the durable record held by the remote invoice service. The
// invoice id it carries is authoritative.
type Invoice struct {
	ID           int           `json:"invoiceId"`
	CustomerID   int           `json:"customerId"`
	PurchaseDate Date          `json:"purchaseDate"`
	Items        []InvoiceItem `json:"invoiceItems"`
}

// InvoiceResponse is the orchestration result: the persisted invoice plus the
// cumulative loyalty points computed for this purchase. Never persisted here.
type InvoiceResponse struct {
	Invoice
	PointsTotal int `json:"pointsTotal"`
}

// LevelUp is a customer's loyalty ledger entry, owned by the remote level-up
// service. Exactly one exists per enrolled customer.
type LevelUp struct {
	ID         int  `json:"levelUpId"`
	CustomerID int  `json:"customerId"`
	Points     int  `json:"points"`
	MemberDate Date `json:"memberDate"`
}
