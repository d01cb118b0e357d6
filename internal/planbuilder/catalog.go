package planbuilder

import (
	"strings"

	"github.com/saeid-a/PowerScaleBack/internal/models"
)

var workoutCatalog = []models.CatalogEntry{
	{Name: "Push Up", Description: "A basic upper body exercise"},
	{Name: "Squat", Description: "A lower body exercise"},
	{Name: "Bench Press", Description: "An upper body strength exercise"},
	{Name: "Deadlift", Description: "A posterior chain strength exercise"},
	{Name: "Overhead Press", Description: "A standing shoulder press"},
	{Name: "Pull Up", Description: "A bodyweight back exercise"},
	{Name: "Barbell Row", Description: "A horizontal pulling exercise"},
	{Name: "Lunge", Description: "A single leg lower body exercise"},
	{Name: "Plank", Description: "A core stability hold"},
}

var mealCatalog = []models.CatalogEntry{
	{Name: "Oatmeal", Description: "A healthy breakfast option"},
	{Name: "Grilled Chicken", Description: "A high-protein lunch"},
	{Name: "Salad", Description: "A light dinner"},
	{Name: "Greek Yogurt", Description: "A protein-rich snack"},
	{Name: "Rice and Beans", Description: "A carbohydrate-dense meal"},
	{Name: "Salmon", Description: "A fatty fish rich in omega-3"},
	{Name: "Eggs", Description: "A versatile protein source"},
}

// SearchCatalog matches entries by case-insensitive substring on the name. A blank query lists
// the whole catalog.
func SearchCatalog(kind models.PlanKind, query string) []models.CatalogEntry {
	source := workoutCatalog
	if kind == models.PlanKindDiet {
		source = mealCatalog
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]models.CatalogEntry, 0, len(source))
	for _, entry := range source {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// LookupCatalog finds an entry by exact name, ignoring case.
func LookupCatalog(kind models.PlanKind, name string) (models.CatalogEntry, bool) {
	source := workoutCatalog
	if kind == models.PlanKindDiet {
		source = mealCatalog
	}
	for _, entry := range source {
		if strings.EqualFold(entry.Name, strings.TrimSpace(name)) {
			return entry, true
		}
	}
	return models.CatalogEntry{}, false
}
