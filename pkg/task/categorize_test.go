package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskKey(t *testing.T) {
	a := Task{Text: "Buy milk", NoteTitle: "Groceries"}
	b := Task{Text: "Buy milk", NoteTitle: "Errands"}

	assert.Equal(t, "Buy milk:Groceries", a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestCategorizeBusinessKeywords(t *testing.T) {
	assert.Equal(t, CategoryBusinessHours, Categorize(Task{Text: "Call the dentist"}))
	assert.Equal(t, CategoryBusinessHours, Categorize(Task{Text: "Schedule a vet visit"}))
	assert.Equal(t, CategoryBusinessHours, Categorize(Task{Text: "Renew insurance policy"}))
}

func TestCategorizeQuickErrandKeywords(t *testing.T) {
	assert.Equal(t, CategoryQuickErrand, Categorize(Task{Text: "Submit expense report"}))
	assert.Equal(t, CategoryQuickErrand, Categorize(Task{Text: "reply to landlord"}))
}

func TestCategorizeFocusKeywords(t *testing.T) {
	assert.Equal(t, CategoryFocusProject, Categorize(Task{Text: "Write blog post"}))
	assert.Equal(t, CategoryFocusProject, Categorize(Task{Text: "research standing desks"}))
}

func TestCategorizeSocialKeywords(t *testing.T) {
	assert.Equal(t, CategorySocialTrips, Categorize(Task{Text: "plan dinner with Sam"}))
	assert.Equal(t, CategorySocialTrips, Categorize(Task{Text: "book tickets for the show"}))
}

func TestCategorizeShoppingKeywords(t *testing.T) {
	assert.Equal(t, CategoryShopping, Categorize(Task{Text: "new shoes"}))
	assert.Equal(t, CategoryShopping, Categorize(Task{Text: "costco run"}))
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	assert.Equal(t, CategoryBusinessHours, Categorize(Task{Text: "CALL THE BANK"}))
}

func TestCategorizeMatchesInsideWords(t *testing.T) {
	// Substring containment, not word matching: "checkout" contains "check".
	assert.Equal(t, CategoryQuickErrand, Categorize(Task{Text: "fix the checkout flow"}))
}

func TestCategorizeBusinessSection(t *testing.T) {
	// A health-section item with a business keyword is business hours.
	got := Categorize(Task{Text: "call podiatrist about orthotics", Section: "health"})
	assert.Equal(t, CategoryBusinessHours, got)

	// Without a business keyword the section rule does not fire and the
	// text falls through to keyword matching.
	got = Categorize(Task{Text: "buy vitamins", Section: "health"})
	assert.Equal(t, CategoryShopping, got)
}

func TestCategorizeFocusSection(t *testing.T) {
	// Focus sections win unconditionally, even over business keywords.
	got := Categorize(Task{Text: "call collaborator about the mix", Section: "music"})
	assert.Equal(t, CategoryFocusProject, got)
}

func TestCategorizeShoppingSection(t *testing.T) {
	got := Categorize(Task{Text: "paper towels", Section: "groceries"})
	assert.Equal(t, CategoryShopping, got)

	// Orders inside a shopping section are quick errands instead.
	got = Categorize(Task{Text: "order cat food", Section: "shopping"})
	assert.Equal(t, CategoryQuickErrand, got)
}

func TestCategorizeSectionBeatsTextKeywords(t *testing.T) {
	// "write" would be a focus keyword, but the shopping section wins.
	got := Categorize(Task{Text: "write down the grocery list", Section: "food"})
	assert.Equal(t, CategoryShopping, got)
}

func TestCategorizeKeywordPriority(t *testing.T) {
	// Business keywords are checked before quick-errand keywords.
	got := Categorize(Task{Text: "call to cancel subscription"})
	assert.Equal(t, CategoryBusinessHours, got)

	// Quick-errand before focus.
	got = Categorize(Task{Text: "update the design doc"})
	assert.Equal(t, CategoryQuickErrand, got)
}

func TestCategorizeSendToPerson(t *testing.T) {
	assert.Equal(t, CategorySocialTrips, Categorize(Task{Text: "send photos to Maria"}))
}

func TestCategorizeSendSentenceInitial(t *testing.T) {
	// The capitalization heuristic also fires when only the first word of
	// the sentence is capitalized.
	assert.Equal(t, CategorySocialTrips, Categorize(Task{Text: "Send thank you card"}))
}

func TestCategorizeSendLowercase(t *testing.T) {
	assert.Equal(t, CategoryGeneral, Categorize(Task{Text: "send thank you card"}))
}

func TestCategorizeGeneralFallback(t *testing.T) {
	assert.Equal(t, CategoryGeneral, Categorize(Task{Text: "water the plants"}))
	assert.Equal(t, CategoryGeneral, Categorize(Task{}))
}

func TestCategorizeDeterministic(t *testing.T) {
	task := Task{Text: "pick up dry cleaning", Section: "errands"}
	first := Categorize(task)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize(task))
	}
}

func TestCategoryDisplayName(t *testing.T) {
	assert.Equal(t, "📞 Business Hours", CategoryBusinessHours.DisplayName())
	assert.Equal(t, "⚡ Quick Task", CategoryQuickErrand.DisplayName())
	assert.Equal(t, "🎯 Focus Time", CategoryFocusProject.DisplayName())
	assert.Equal(t, "👥 Social", CategorySocialTrips.DisplayName())
	assert.Equal(t, "🛒 Shopping", CategoryShopping.DisplayName())
	assert.Equal(t, "📝 General", CategoryGeneral.DisplayName())
	assert.Equal(t, "📝 Task", Category("mystery").DisplayName())
}
