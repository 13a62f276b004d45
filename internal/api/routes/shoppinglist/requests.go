package shoppinglist

type AddItemRequest struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
}
