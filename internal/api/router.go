package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/daylog/daylog-backend/internal/api/recovery"
	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/auth"
	"github.com/daylog/daylog-backend/internal/health"
	"github.com/daylog/daylog-backend/internal/services"
	"github.com/daylog/daylog-backend/internal/store"
)

// NewRouter wires services, middleware, and routes. Registration and health
// checks are public; everything else requires a bearer token.
func NewRouter(s store.Store, am *assets.Manager, az auth.Authorizer, pinger health.HealthPinger, diarySvc *services.DiaryService, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.New(log))

	userSvc := services.NewUserService(s)
	eventSvc := services.NewEventService(s)
	todoSvc := services.NewTodoService(s)
	categorySvc := services.NewCategoryService(s)
	visibilitySvc := services.NewVisibilityService(s)

	healthHandler := NewHealthHandler(pinger)
	userHandler := NewUserHandler(userSvc)
	diaryHandler := NewDiaryHandler(diarySvc)
	eventHandler := NewEventHandler(eventSvc)
	todoHandler := NewTodoHandler(todoSvc)
	categoryHandler := NewCategoryHandler(categorySvc, visibilitySvc)

	// Public endpoints
	router.HandleFunc("/api/health", healthHandler.Check).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStore).Methods("GET")
	router.HandleFunc("/api/users", userHandler.Register).Methods("POST")

	// Uploaded images are served as static files
	router.PathPrefix(assets.URLPrefix).Handler(
		http.StripPrefix(assets.URLPrefix, http.FileServer(http.Dir(am.Root()))),
	).Methods("GET")

	// Authenticated API
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(authMiddleware(az, userSvc))

	authed.HandleFunc("/users/me", userHandler.Me).Methods("GET")

	authed.HandleFunc("/diaries", diaryHandler.Create).Methods("POST")
	authed.HandleFunc("/diaries", diaryHandler.List).Methods("GET")
	authed.HandleFunc("/diaries/{diaryId:[0-9]+}", diaryHandler.Get).Methods("GET")
	authed.HandleFunc("/diaries/{diaryId:[0-9]+}", diaryHandler.Update).Methods("PUT")
	authed.HandleFunc("/diaries/{diaryId:[0-9]+}", diaryHandler.Delete).Methods("DELETE")

	authed.HandleFunc("/events", eventHandler.Create).Methods("POST")
	authed.HandleFunc("/events", eventHandler.List).Methods("GET")
	authed.HandleFunc("/events/{eventId:[0-9]+}", eventHandler.Get).Methods("GET")
	authed.HandleFunc("/events/{eventId:[0-9]+}", eventHandler.Update).Methods("PUT")
	authed.HandleFunc("/events/{eventId:[0-9]+}", eventHandler.Delete).Methods("DELETE")

	authed.HandleFunc("/todos", todoHandler.Create).Methods("POST")
	authed.HandleFunc("/todos", todoHandler.List).Methods("GET")
	authed.HandleFunc("/todos/{todoId:[0-9]+}", todoHandler.Get).Methods("GET")
	authed.HandleFunc("/todos/{todoId:[0-9]+}", todoHandler.Update).Methods("PUT")
	authed.HandleFunc("/todos/{todoId:[0-9]+}/progress", todoHandler.UpdateProgress).Methods("PATCH")
	authed.HandleFunc("/todos/{todoId:[0-9]+}", todoHandler.Delete).Methods("DELETE")

	authed.HandleFunc("/categories", categoryHandler.Create).Methods("POST")
	authed.HandleFunc("/categories", categoryHandler.List).Methods("GET")
	authed.HandleFunc("/categories/visibility", categoryHandler.ListVisibility).Methods("GET")
	authed.HandleFunc("/categories/{categoryId:[0-9]+}", categoryHandler.Update).Methods("PUT")
	authed.HandleFunc("/categories/{categoryId:[0-9]+}", categoryHandler.Delete).Methods("DELETE")
	authed.HandleFunc("/categories/{categoryId:[0-9]+}/visibility", categoryHandler.SetVisibility).Methods("PUT")

	return router
}
