package meals

// MealRequest carries a planner slot assignment. Day and slot are
// pointers so a zero (Sunday, first slot) still satisfies required.
type MealRequest struct {
	DayOfWeek  *int32  `json:"day_of_week" validate:"required,min=0,max=6"`
	TimeSlot   *int32  `json:"time_slot" validate:"required,min=0,max=10"`
	RecipeID   *int64  `json:"recipe_id"`
	CustomName *string `json:"custom_name"`
	Notes      string  `json:"notes"`
}
