package models

import "time"

type InventoryItem struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SKU           *string    `json:"sku"`
	Quantity      float64    `json:"currentStock"`
	Unit          *string    `json:"unit"`
	ReorderLevel  float64    `json:"minStock"`
	CostPerUnit   *float64   `json:"costPerUnit"`
	LastRestocked *time.Time `json:"lastRestocked"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

// MovementType is the direction of a stock movement. Only MovementIn adds
// to the stock level; every other type subtracts.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementWaste      MovementType = "waste"
	MovementAdjustment MovementType = "adjustment"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementWaste, MovementAdjustment:
		return true
	}
	return false
}

// Delta is the signed change a movement of quantity q applies to stock.
func (t MovementType) Delta(q float64) float64 {
	if t == MovementIn {
		return q
	}
	return -q
}

type StockMovement struct {
	ID          string       `json:"id"`
	InventoryID string       `json:"inventoryId"`
	Quantity    float64      `json:"quantity"`
	Type        MovementType `json:"type"`
	Note        *string      `json:"note"`
	CreatedBy   *string      `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
}
