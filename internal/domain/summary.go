package domain

type BudgetSummary struct {
	Budget     int     `json:"budget"`
	PreSpent   int     `json:"pre_spent"`
	PlanSpent  int     `json:"plan_spent"`
	TotalSpent int     `json:"total_spent"`
	Remaining  int     `json:"remaining"`
	UsageRatio float64 `json:"usage_ratio"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Cost     int     `json:"cost"`
	Share    float64 `json:"share"`
}

type TripSummary struct {
	Budget     BudgetSummary   `json:"budget"`
	Categories []CategoryTotal `json:"categories"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Days       int             `json:"days"`
}
