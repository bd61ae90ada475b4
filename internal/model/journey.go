package model

// DateLayout is the layout of the journey record keys (local calendar date).
const DateLayout = "2006-01-02"

// TaskSnapshot is the copy of a claimed task kept in the journey.
type TaskSnapshot struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DailyRecord is the progress of a single day.
type DailyRecord struct {
	Count int            `json:"count"`
	Tasks []TaskSnapshot `json:"tasks"`
}

// Journey maps a calendar date to the tasks claimed that day.
type Journey map[string]DailyRecord

// Clone returns a deep copy of the journey.
func (j Journey) Clone() Journey {
	c := make(Journey, len(j))
	for date, r := range j {
		c[date] = DailyRecord{Count: r.Count, Tasks: append([]TaskSnapshot{}, r.Tasks...)}
	}
	return c
}

// Total returns the number of claimed tasks in all the days.
func (j Journey) Total() int {
	total := 0
	for _, r := range j {
		total += r.Count
	}
	return total
}
