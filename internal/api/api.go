// Package api sets up and starts the API server with routing and
// middleware.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idoBeitOn/MealMate/internal/api/middleware"
	"github.com/idoBeitOn/MealMate/internal/api/routes/auth"
	"github.com/idoBeitOn/MealMate/internal/api/routes/categories"
	"github.com/idoBeitOn/MealMate/internal/api/routes/comments"
	"github.com/idoBeitOn/MealMate/internal/api/routes/health"
	"github.com/idoBeitOn/MealMate/internal/api/routes/meals"
	"github.com/idoBeitOn/MealMate/internal/api/routes/recipes"
	"github.com/idoBeitOn/MealMate/internal/api/routes/shoppinglist"
	"github.com/idoBeitOn/MealMate/internal/env"
)

func addRoutes(router *chi.Mux) {
	router.Get("/health", health.HandleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.HandleRegister)
			r.Post("/login", auth.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate)

				r.Get("/me", auth.HandleMe)
			})
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.HandleListRecipes)
			r.Get("/{recipeID}", recipes.HandleGetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate)

				r.Post("/", recipes.HandleCreateRecipe)
				r.Get("/search", recipes.HandleSearchRecipes)
				r.Put("/{recipeID}", recipes.HandleUpdateRecipe)
				r.Delete("/{recipeID}", recipes.HandleDeleteRecipe)
				r.Post("/{recipeID}/like", recipes.HandleToggleLike)
				r.Post("/{recipeID}/favorite", recipes.HandleAddFavorite)
				r.Delete("/{recipeID}/favorite", recipes.HandleRemoveFavorite)
				r.Post("/{recipeID}/image", recipes.HandleUploadImage)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{recipeID}", comments.HandleListComments)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate)

				r.Post("/", comments.HandleCreateComment)
				r.Delete("/{commentID}", comments.HandleDeleteComment)
			})
		})

		r.Route("/meals", func(r chi.Router) {
			r.Use(middleware.Authenticate)

			r.Post("/", meals.HandleCreateMeal)
			r.Get("/", meals.HandleListMeals)
			r.Put("/{mealID}", meals.HandleUpdateMeal)
			r.Delete("/{mealID}", meals.HandleDeleteMeal)
		})

		r.Route("/shopping-list", func(r chi.Router) {
			r.Use(middleware.Authenticate)

			r.Get("/{userID}", shoppinglist.HandleGetShoppingList)
			r.Post("/{userID}/items", shoppinglist.HandleAddItem)
			r.Delete("/{userID}/items/{itemID}", shoppinglist.HandleDeleteItem)
			r.Put("/{userID}/items/{itemID}/toggle", shoppinglist.HandleToggleItem)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.HandleListCategories)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate)

				r.Post("/", categories.HandleCreateCategory)
			})
		})
	})
}

// addFileServer serves uploaded recipe images from the local volume
// under the configured URL prefix.
func addFileServer(router *chi.Mux, urlPrefix, volume string) {
	fs := http.StripPrefix(urlPrefix, http.FileServer(http.Dir(volume)))
	router.Get(urlPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}

func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addFileServer(router, env.Config.Fileserver.URLPrefix, env.Config.Fileserver.Volume)

	addr := fmt.Sprintf(":%d", env.Config.Port)
	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0%s", addr))
	return http.ListenAndServe(addr, router)
}
