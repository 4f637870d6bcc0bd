package task

import (
	"strings"
	"unicode"
)

// Keyword tables for categorization. Matching is case-insensitive
// substring containment, checked in declaration order.
var (
	businessKeywords = []string{
		"call", "schedule", "doctor", "dentist", "appointment",
		"podiatrist", "dermatologist", "therapist", "vet", "clinic",
		"office", "bank", "dmv", "government", "insurance",
	}

	quickErrandKeywords = []string{
		"submit", "order", "check", "sign up", "cancel", "renew",
		"update", "confirm", "reply", "respond", "email", "text",
		"send email", "fill out", "complete form",
	}

	focusProjectKeywords = []string{
		"set up", "try", "research", "build", "create", "write",
		"design", "develop", "learn", "study", "read about",
		"remix", "record", "edit", "practice",
	}

	socialTripKeywords = []string{
		"trip", "tickets", "travel", "vacation", "visit",
		"meet", "dinner", "lunch", "party", "event",
	}

	shoppingKeywords = []string{
		"buy", "purchase", "new", "find", "shop", "get",
		"pick up", "amazon", "costco",
	}
)

// Section names that pin a category before keyword matching runs.
var (
	businessSections = []string{"health", "medical", "appointments", "admin"}
	focusSections    = []string{"ai assistant", "music", "projects", "creative", "learning", "research"}
	shoppingSections = []string{"shopping", "food", "groceries"}
)

// Categorize assigns a task to a category from its section and text.
// Rules run in a fixed order; the first match wins.
func Categorize(t Task) Category {
	text := strings.ToLower(t.Text)
	section := strings.ToLower(t.Section)

	// Section-pinned categories come first.
	if containsAny(section, businessSections) {
		// Health items only count as business hours when they involve
		// calling or scheduling something.
		if containsAny(text, businessKeywords) {
			return CategoryBusinessHours
		}
	}

	if containsAny(section, focusSections) {
		return CategoryFocusProject
	}

	if containsAny(section, shoppingSections) {
		// Online orders can happen any time.
		if containsAny(text, quickErrandKeywords) {
			return CategoryQuickErrand
		}
		return CategoryShopping
	}

	if containsAny(text, businessKeywords) {
		return CategoryBusinessHours
	}

	if containsAny(text, quickErrandKeywords) {
		return CategoryQuickErrand
	}

	if containsAny(text, focusProjectKeywords) {
		return CategoryFocusProject
	}

	if containsAny(text, socialTripKeywords) {
		return CategorySocialTrips
	}

	if containsAny(text, shoppingKeywords) {
		return CategoryShopping
	}

	// "send" plus a capitalized word usually means sending something to
	// a person.
	if strings.Contains(text, "send") && hasCapitalizedWord(t.Text) {
		return CategorySocialTrips
	}

	return CategoryGeneral
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasCapitalizedWord(s string) bool {
	for _, word := range strings.Fields(s) {
		if unicode.IsUpper([]rune(word)[0]) {
			return true
		}
	}
	return false
}
