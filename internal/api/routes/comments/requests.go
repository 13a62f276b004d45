package comments

type CreateCommentRequest struct {
	RecipeID int64  `json:"recipe_id" validate:"required"`
	Text     string `json:"text" validate:"required"`
}
