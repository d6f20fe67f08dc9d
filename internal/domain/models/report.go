package models

import "time"

// OrderKPIs is the public order aggregate served by /reports/orders.
type OrderKPIs struct {
	Total      int64 `json:"total" bson:"total"`
	Planned    int64 `json:"planned" bson:"planned"`
	InProgress int64 `json:"in_progress" bson:"in_progress"`
	Completed  int64 `json:"completed" bson:"completed"`
}

// KPISnapshot is an archived OrderKPIs reading.
type KPISnapshot struct {
	TakenAt time.Time `bson:"taken_at" json:"taken_at"`
	OrderKPIs `bson:",inline"`
}
