package model

const DefaultHouseholdName = "My Household"

// DefaultPlaceNames seeds the place list of a new household.
var DefaultPlaceNames = []string{"Kitchen", "Bathroom", "Bedroom", "Yard", "General"}
