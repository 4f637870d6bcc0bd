package task

import "time"

// Categorized pairs a task with its derived category.
type Categorized struct {
	Task     Task
	Category Category
}

// Eligible reports whether a reminder for the category is welcome at the
// given local time. Windows are half-open hour ranges.
func Eligible(c Category, at time.Time) bool {
	hour := at.Hour()

	switch c {
	case CategoryBusinessHours:
		// 9am - 5pm only
		return 9 <= hour && hour < 17
	case CategoryFocusProject:
		// 6pm - 11pm
		return 18 <= hour && hour < 23
	case CategoryQuickErrand, CategoryShopping:
		// Any time, within reason
		return 7 <= hour && hour < 23
	case CategorySocialTrips:
		return 9 <= hour && hour < 22
	}
	return 8 <= hour && hour < 22
}

// EligibleTasks categorizes tasks and keeps those whose window covers the
// given time, preserving input order.
func EligibleTasks(tasks []Task, at time.Time) []Categorized {
	var eligible []Categorized
	for _, t := range tasks {
		c := Categorize(t)
		if Eligible(c, at) {
			eligible = append(eligible, Categorized{Task: t, Category: c})
		}
	}
	return eligible
}
