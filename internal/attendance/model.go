package attendance

// Record mirrors one attendance row. Append-only: a student may accumulate
// any number of rows per date.
type Record struct {
	ID      uint64
	UserID  string
	Date    string // YYYY-MM-DD
	Status  Status
	Reason  string
	FileURL *string
}

// TodayRow is an attendance row joined to its student for the daily roster.
type TodayRow struct {
	Grade   int
	Class   int
	Number  int
	Name    string
	Status  Status
	Reason  string
	FileURL *string
}

// StatsRow is one student's monthly tally. Sick leave counts toward neither
// column.
type StatsRow struct {
	Grade  int
	Class  int
	Number int
	Name   string
	Late   int64
	Absent int64
}
