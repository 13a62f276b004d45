package recipes

import "github.com/idoBeitOn/MealMate/internal/database"

type IngredientPayload struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
}

type NutritionPayload struct {
	Calories      float64 `json:"calories" validate:"min=0"`
	Fat           float64 `json:"fat" validate:"min=0"`
	Carbohydrates float64 `json:"carbohydrates" validate:"min=0"`
	Protein       float64 `json:"protein" validate:"min=0"`
}

// RecipeRequest carries the full mutable state of a recipe. Create and
// update share it; the author always comes from the access token.
type RecipeRequest struct {
	Title           string              `json:"title" validate:"required"`
	Description     string              `json:"description" validate:"required"`
	CookTimeMinutes int32               `json:"cook_time_minutes" validate:"min=0"`
	Difficulty      string              `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	CategoryID      *int64              `json:"category_id"`
	IsPublic        *bool               `json:"is_public"`
	Nutrition       NutritionPayload    `json:"nutrition"`
	Ingredients     []IngredientPayload `json:"ingredients" validate:"required,min=1,dive"`
	Steps           []string            `json:"steps"`
	Images          []string            `json:"images"`
}

const defaultDifficulty = "easy"

func (req RecipeRequest) difficulty() string {
	if req.Difficulty == "" {
		return defaultDifficulty
	}
	return req.Difficulty
}

func (req RecipeRequest) isPublic() bool {
	if req.IsPublic == nil {
		return true
	}
	return *req.IsPublic
}

func (req RecipeRequest) ingredients() []database.Ingredient {
	ingredients := make([]database.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, database.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
		})
	}
	return ingredients
}

func (req RecipeRequest) nutrition() database.Nutrition {
	return database.Nutrition{
		Calories:      req.Nutrition.Calories,
		Fat:           req.Nutrition.Fat,
		Carbohydrates: req.Nutrition.Carbohydrates,
		Protein:       req.Nutrition.Protein,
	}
}
