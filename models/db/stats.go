package dbmodels

// CountRow is a grouped count result, not a table.
type CountRow struct {
	Key   string
	Count int64
}

type UserCountRow struct {
	UserID   string
	Username string
	UserType string
	Count    int64
}

type RoleActivityRow struct {
	UserType    string
	UniqueUsers int64
	Actions     int64
}

type DurationRow struct {
	AvgHours float64
	MinHours float64
	MaxHours float64
	Count    int64
}
