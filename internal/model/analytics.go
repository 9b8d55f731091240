package model

// AnalyticsRow summarises one habit's events inside the current day and week.
type AnalyticsRow struct {
	HabitID      int64  `json:"habit_id"`
	HabitName    string `json:"habit_name"`
	DailyResist  int    `json:"daily_resist"`
	DailySlip    int    `json:"daily_slip"`
	WeeklyResist int    `json:"weekly_resist"`
	WeeklySlip   int    `json:"weekly_slip"`
}
