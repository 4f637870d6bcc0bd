package task

// Category buckets tasks by the kind of attention they need, which in
// turn decides when a reminder for them is welcome.
type Category string

const (
	CategoryBusinessHours Category = "business_hours"
	CategoryQuickErrand   Category = "quick_errand"
	CategoryFocusProject  Category = "focus_project"
	CategorySocialTrips   Category = "social_trips"
	CategoryShopping      Category = "shopping"
	CategoryGeneral       Category = "general"
)

// Glyph returns the marker used in compact task lists.
func (c Category) Glyph() string {
	switch c {
	case CategoryBusinessHours:
		return "📞"
	case CategoryQuickErrand:
		return "⚡"
	case CategoryFocusProject:
		return "🎯"
	case CategorySocialTrips:
		return "👥"
	case CategoryShopping:
		return "🛒"
	}
	return "📝"
}

// DisplayName returns the label shown in notifications and task lists.
func (c Category) DisplayName() string {
	switch c {
	case CategoryBusinessHours:
		return "📞 Business Hours"
	case CategoryQuickErrand:
		return "⚡ Quick Task"
	case CategoryFocusProject:
		return "🎯 Focus Time"
	case CategorySocialTrips:
		return "👥 Social"
	case CategoryShopping:
		return "🛒 Shopping"
	case CategoryGeneral:
		return "📝 General"
	}
	return "📝 Task"
}
