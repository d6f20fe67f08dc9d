// Package catalog holds the predefined bills of materials shown by the order lookup.
package catalog

import "strings"

// Line is one row of a predefined BOM.
type Line struct {
	Component string
	Qty       string
	Price     string
}

// PredefinedBOM is a priced component breakdown for a well-known product.
type PredefinedBOM struct {
	Key   string
	Title string
	Lines []Line
	Total string
}

var predefined = []PredefinedBOM{
	{
		Key:   "r15 bike",
		Title: "R15 Bike",
		Lines: []Line{
			{"Frame", "1", "₹20,000"},
			{"Engine (155cc, liquid cooled)", "1", "₹70,000"},
			{"Fuel tank", "1", "₹7,000"},
			{"Front wheel assembly", "1", "₹12,000"},
			{"Rear wheel assembly", "1", "₹10,000"},
			{"Front suspension", "1", "₹6,000"},
			{"Rear suspension", "1", "₹5,000"},
			{"Brake system (front + rear)", "1", "₹8,000"},
			{"Seat assembly", "1", "₹3,000"},
			{"Electrical system", "1", "₹15,000"},
			{"Exhaust system", "1", "₹6,000"},
			{"Body panels + fairings", "Set", "₹18,000"},
		},
		Total: "≈ ₹1,80,000",
	},
	{
		Key:   "table",
		Title: "Table",
		Lines: []Line{
			{"Tabletop", "1", "₹2,000"},
			{"Legs", "4", "₹1,600"},
			{"Frame/Support", "1", "₹1,200"},
			{"Fasteners", "Set", "₹300"},
			{"Finish", "-", "₹500"},
		},
		Total: "≈ ₹5,600",
	},
	{
		Key:   "chair",
		Title: "Chair",
		Lines: []Line{
			{"Seat base", "1", "₹700"},
			{"Backrest", "1", "₹600"},
			{"Legs", "4", "₹1,200"},
			{"Support rails", "2", "₹400"},
			{"Fasteners", "Set", "₹200"},
			{"Finish", "-", "₹300"},
		},
		Total: "≈ ₹3,400",
	},
	{
		Key:   "door",
		Title: "Door",
		Lines: []Line{
			{"Door panel", "1", "₹5,000"},
			{"Hinges", "3", "₹600"},
			{"Door frame", "1", "₹2,500"},
			{"Handle/knob", "1", "₹800"},
			{"Lock mechanism", "1", "₹1,200"},
			{"Finish", "-", "₹700"},
		},
		Total: "≈ ₹10,800",
	},
	{
		Key:   "stove",
		Title: "Stove",
		Lines: []Line{
			{"Stove body/frame", "1", "₹2,000"},
			{"Burners", "2", "₹1,400"},
			{"Gas pipe/manifold", "1", "₹1,000"},
			{"Control knobs", "2", "₹400"},
			{"Grates", "2", "₹800"},
			{"Ignition system", "1", "₹1,200"},
			{"Rubber feet", "4", "₹200"},
		},
		Total: "≈ ₹7,000",
	},
}

// Match finds the predefined BOM whose key occurs in the product name (case-insensitive).
// When several keys occur, the one listed last wins.
func Match(productName string) (PredefinedBOM, bool) {
	name := strings.ToLower(productName)
	var (
		found PredefinedBOM
		ok    bool
	)
	for _, bom := range predefined {
		if strings.Contains(name, bom.Key) {
			found, ok = bom, true
		}
	}
	return found, ok
}
