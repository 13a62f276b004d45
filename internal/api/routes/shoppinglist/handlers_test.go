package shoppinglist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	apiError "github.com/idoBeitOn/MealMate/internal/api/error"
	"github.com/idoBeitOn/MealMate/internal/api/requestid"
	"github.com/idoBeitOn/MealMate/internal/api/token"
	"github.com/idoBeitOn/MealMate/internal/config"
	"github.com/idoBeitOn/MealMate/internal/database"
	"github.com/idoBeitOn/MealMate/internal/env"
	"github.com/idoBeitOn/MealMate/internal/filestore"
	"github.com/idoBeitOn/MealMate/internal/shopping"
)

// fakeListStore keeps the shopping list in memory with the same
// replacement and append semantics as the Postgres implementation.
type fakeListStore struct {
	database.Store
	planned []database.MealIngredient
	items   []database.ShoppingListItem
	nextID  int64
}

func (s *fakeListStore) MealIngredientsForUser(ctx context.Context, userID int64) ([]database.MealIngredient, error) {
	return s.planned, nil
}

func (s *fakeListStore) ReplaceShoppingListItems(ctx context.Context, userID int64, items []database.NewListItem) (database.ShoppingList, error) {
	s.items = nil
	for _, item := range items {
		s.nextID++
		s.items = append(s.items, database.ShoppingListItem{
			ID:        s.nextID,
			Name:      item.Name,
			Amount:    item.Amount,
			Purchased: item.Purchased,
			Source:    item.Source,
		})
	}
	return s.list(), nil
}

func (s *fakeListStore) AddShoppingListItem(ctx context.Context, userID int64, name, amount string) (database.ShoppingList, error) {
	s.nextID++
	s.items = append(s.items, database.ShoppingListItem{
		ID:     s.nextID,
		Name:   name,
		Amount: amount,
		Source: shopping.SourceManual,
	})
	return s.list(), nil
}

func (s *fakeListStore) list() database.ShoppingList {
	return database.ShoppingList{ID: 1, UserID: 42, Items: s.items}
}

func listCtx(t *testing.T, r *http.Request, store database.Store, callerID int64, pathUserID string) *http.Request {
	t.Helper()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userID", pathUserID)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	e := env.New(nil, store, filestore.FileStore{}, config.Config{})
	r = r.WithContext(env.WithCtx(r.Context(), e))
	r = r.WithContext(requestid.InjectRequestID(r.Context(), 1))
	r = r.WithContext(token.UserIDWithCtx(r.Context(), callerID))
	return r
}

func newListRequest(t *testing.T, callerID int64, pathUserID string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/shopping-list/"+pathUserID, nil)
	return listCtx(t, r, nil, callerID, pathUserID)
}

// The list is private: a caller asking for another user's path is
// rejected before any storage access.
func TestHandleGetShoppingList_OtherUser(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleGetShoppingList(rec, newListRequest(t, 42, "99"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	var body apiError.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling error body: %v", err)
	}
	if body.Code != apiError.NotResourceOwner {
		t.Errorf("error code = %q, want %q", body.Code, apiError.NotResourceOwner)
	}
}

func TestHandleGetShoppingList_MalformedUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleGetShoppingList(rec, newListRequest(t, 42, "not-a-number"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var body apiError.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling error body: %v", err)
	}
	if body.Code != apiError.BadRequest {
		t.Errorf("error code = %q, want %q", body.Code, apiError.BadRequest)
	}
}

// Regeneration is a full overwrite of the item set: a manually added
// item does not survive the next generation from planned meals.
func TestHandleGetShoppingList_RegenerationDiscardsManualItems(t *testing.T) {
	store := &fakeListStore{planned: []database.MealIngredient{
		{Name: "Eggs", Amount: "6"},
		{Name: "Milk", Amount: "1L"},
	}}

	add := httptest.NewRequest(http.MethodPost, "/api/shopping-list/42/items",
		strings.NewReader(`{"name":"salt","amount":"1 tsp"}`))
	add.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	HandleAddItem(rec, listCtx(t, add, store, 42, "42"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/api/shopping-list/42", nil)
	rec = httptest.NewRecorder()
	HandleGetShoppingList(rec, listCtx(t, get, store, 42, "42"))
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var list database.ShoppingList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshaling list: %v", err)
	}

	names := make(map[string]bool, len(list.Items))
	for _, item := range list.Items {
		names[item.Name] = true
		if item.Source != shopping.SourceMeal {
			t.Errorf("item %q source = %q, want %q", item.Name, item.Source, shopping.SourceMeal)
		}
	}
	if names["salt"] {
		t.Error("manual item survived regeneration, want it discarded")
	}
	if !names["Eggs"] || !names["Milk"] {
		t.Errorf("regenerated items = %v, want the planned-meal ingredients", names)
	}
}

func TestHandleToggleItem_OtherUser(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleToggleItem(rec, newListRequest(t, 42, "7"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
