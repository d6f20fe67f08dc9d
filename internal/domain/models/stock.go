package models

// MovementType enumerates stock ledger directions.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Sign returns +1 for inbound movements and -1 otherwise.
func (m MovementType) Sign() int64 {
	switch m {
	case MovementIn:
		return 1
	case MovementOut:
		return -1
	default:
		// unrecognised ledger rows count as outbound
		return -1
	}
}

// StockLedgerEntry is one stock movement record.
type StockLedgerEntry struct {
	ID           int64        `json:"id"`
	ProductID    int64        `json:"product_id"`
	MovementType MovementType `json:"movement_type"`
	Quantity     int64        `json:"quantity"`
	Reference    string       `json:"reference,omitempty"`
	Timestamp    string       `json:"timestamp,omitempty"`
}

// StockLine is the derived on-hand quantity of a product.
type StockLine struct {
	Product  Product
	Quantity int64
}
