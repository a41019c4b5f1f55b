package models

// StatusCounts is a derived snapshot of the application population. It is
// never persisted; it is recomputed on each refresh.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// PeriodCount is one bucket of a report series, e.g. applications per month.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// User is a directory entry visible to admins.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []User `json:"content"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalUsers int    `json:"totalElements"`
}
