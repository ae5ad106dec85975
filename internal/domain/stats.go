package domain

// YearCount is the number of books finished in a calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// ReadingStats summarizes a user's lists and finishing history.
type ReadingStats struct {
	WantToRead       int         `json:"want_to_read"`
	CurrentlyReading int         `json:"currently_reading"`
	HaveRead         int         `json:"have_read"`
	FinishedThisYear int         `json:"finished_this_year"`
	FinishedByYear   []YearCount `json:"finished_by_year"`
	ReadCount        int         `json:"read_count"`
	ListenCount      int         `json:"listen_count"`
}

// TotalBooks returns the count across all three lists.
func (s *ReadingStats) TotalBooks() int {
	return s.WantToRead + s.CurrentlyReading + s.HaveRead
}
