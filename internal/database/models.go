package database

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Nutrition struct {
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
}

// RecipeSummary is the list/search projection of a recipe, with the
// author reference expanded to their username.
type RecipeSummary struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CookTimeMinutes int32     `json:"cook_time_minutes"`
	Difficulty      string    `json:"difficulty"`
	CategoryID      *int64    `json:"category_id,omitempty"`
	AuthorID        int64     `json:"author_id"`
	AuthorUsername  string    `json:"author_username"`
	IsPublic        bool      `json:"is_public"`
	LikesCount      int64     `json:"likes_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecipeDetail is a fully expanded recipe.
type RecipeDetail struct {
	RecipeSummary
	Ingredients    []Ingredient `json:"ingredients"`
	Steps          []string     `json:"steps"`
	Images         []string     `json:"images"`
	Nutrition      Nutrition    `json:"nutrition"`
	CategoryName   *string      `json:"category_name,omitempty"`
	FavoritesCount int64        `json:"favorites_count"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	UserEmail string    `json:"user_email"`
	Body      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Meal struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	DayOfWeek  int32     `json:"day_of_week"`
	TimeSlot   int32     `json:"time_slot"`
	RecipeID   *int64    `json:"recipe_id,omitempty"`
	CustomName *string   `json:"custom_name,omitempty"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MealWithRecipe is a meal with its recipe reference expanded to the
// fields the planner view needs.
type MealWithRecipe struct {
	Meal
	RecipeTitle    *string `json:"recipe_title,omitempty"`
	RecipeCookTime *int32  `json:"recipe_cook_time,omitempty"`
	RecipeImage    *string `json:"recipe_image,omitempty"`
}

type ShoppingListItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Purchased bool   `json:"purchased"`
	Source    string `json:"source"`
}

type ShoppingList struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
