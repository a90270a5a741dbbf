package domain

// UpgradeUserData brings a blob loaded from storage up to
// CurrentSchemaVersion. It is idempotent and runs once per load.
func UpgradeUserData(d *UserData) {
	if d == nil {
		return
	}
	if d.SchemaVersion < 1 {
		d.Itinerary = upgradeItemsV1(d.Itinerary)
		if d.Candidates == nil {
			d.Candidates = []Favorite{}
		}
	}
	for i := range d.Itinerary {
		d.Itinerary[i].RecalculateCost()
	}
	d.SchemaVersion = CurrentSchemaVersion
}

// UpgradeSnapshot applies the same item migration to a history entry.
func UpgradeSnapshot(s *Snapshot) {
	if s == nil {
		return
	}
	s.Itinerary = upgradeItemsV1(s.Itinerary)
	for i := range s.Itinerary {
		s.Itinerary[i].RecalculateCost()
	}
}

// upgradeItemsV1 gives every item a SubBudgets list. Legacy items carried
// only a flat Cost/Category/Note; a positive cost becomes one sub-entry.
func upgradeItemsV1(items []ItineraryItem) []ItineraryItem {
	if items == nil {
		return []ItineraryItem{}
	}
	for i := range items {
		item := &items[i]
		if item.SubBudgets != nil {
			continue
		}
		item.SubBudgets = []SubBudget{}
		if item.Cost > 0 {
			category := item.Category
			if category == "" {
				category = BudgetOther
			}
			item.SubBudgets = append(item.SubBudgets, SubBudget{
				Category: category,
				Cost:     item.Cost,
				Note:     item.Note,
			})
		}
	}
	return items
}
