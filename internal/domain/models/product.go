package models

import (
	"encoding/json"
	"time"
)

// ProductType enumerates the product categories known to the backend.
type ProductType string

const (
	ProductRaw       ProductType = "raw"
	ProductComponent ProductType = "component"
	ProductFinished  ProductType = "finished"
	// ProductOther stands for any category the console does not know.
	ProductOther ProductType = "other"
)

// ProductTypes lists the values accepted by the product form.
var ProductTypes = []ProductType{ProductRaw, ProductComponent, ProductFinished}

// ParseProductType validates free-form input against the known product types.
func ParseProductType(value string) (ProductType, bool) {
	switch ProductType(value) {
	case ProductRaw, ProductComponent, ProductFinished:
		return ProductType(value), true
	default:
		return "", false
	}
}

// IsMaterial reports whether the product is consumed by manufacturing (raw or component).
func (t ProductType) IsMaterial() bool {
	switch t {
	case ProductRaw, ProductComponent:
		return true
	case ProductFinished, ProductOther:
		return false
	default:
		return false
	}
}

// Label renders the product type for humans.
func (t ProductType) Label() string {
	switch t {
	case ProductRaw:
		return "raw"
	case ProductComponent:
		return "component"
	case ProductFinished:
		return "finished"
	case ProductOther:
		return "other"
	default:
		return string(t)
	}
}

// Product mirrors a row of the backend product table.
type Product struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      ProductType `json:"type"`
	StockQty  int64       `json:"stock_qty"`
	CreatedBy *int64      `json:"created_by"`
	CreatedAt string      `json:"created_at,omitempty"`

	// TypeText keeps the backend's value when Type is ProductOther.
	TypeText string `json:"-"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Product(decoded)
	switch decoded.Type {
	case ProductRaw, ProductComponent, ProductFinished:
	default:
		p.Type, p.TypeText = ProductOther, string(decoded.Type)
	}
	return nil
}

// TypeLabel renders the type, falling back to the backend's own text for unknown categories.
func (p Product) TypeLabel() string {
	if p.Type == ProductOther && p.TypeText != "" {
		return p.TypeText
	}
	return p.Type.Label()
}

// OwnedBy reports whether the product was created by the given user.
func (p Product) OwnedBy(userID int64, ok bool) bool {
	if !ok || p.CreatedBy == nil {
		return false
	}
	return *p.CreatedBy == userID
}

// CreateProductRequest is the payload accepted by POST /products.
type CreateProductRequest struct {
	Name     string      `json:"name"`
	Type     ProductType `json:"type"`
	StockQty int64       `json:"stock_qty"`
}

// DeletedResponse is returned by DELETE endpoints.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ExportFile holds a report downloaded from the backend.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}
