package domain

import "time"

// Inventory tracks physical stock for one variant across its possible
// dispositions. QtyTotal should roughly equal the sum of the other fields;
// the split is adjusted manually in some back-office flows, so it is treated
// as a soft invariant, but no field may go negative.
type Inventory struct {
	ID            int64      `json:"id"`
	ProductID     int64      `json:"product_id"`
	Variant       VariantKey `json:"variant"`
	QtyTotal      int        `json:"qty_total"`
	QtyAvailable  int        `json:"qty_available"`
	QtyInCleaning int        `json:"qty_in_cleaning"`
	QtyInRepair   int        `json:"qty_in_repair"`
	QtyLost       int        `json:"qty_lost"`
	UpdatedOn     time.Time  `json:"updated_on"`
}
