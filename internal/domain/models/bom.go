package models

import "encoding/json"

// BillOfMaterials mirrors a row of the backend BOM table. Components and operations are
// stored by the backend as free-form JSON and are kept verbatim.
type BillOfMaterials struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Components json.RawMessage `json:"components"`
	Operations json.RawMessage `json:"operations"`
	CreatedAt  string          `json:"created_at,omitempty"`
}

// CreateBOMRequest is the payload accepted by POST /bom.
type CreateBOMRequest struct {
	ProductID  int64           `json:"product_id"`
	Components json.RawMessage `json:"components"`
	Operations json.RawMessage `json:"operations"`
}
