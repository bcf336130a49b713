package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Task         *apiHandler.TaskHandler
	Notification *apiHandler.NotificationHandler
	Inbox        *apiHandler.InboxHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Task lifecycle
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks/trash", authMiddleware(handlers.Task.GetTrash))
	r.DELETE("/api/v1/tasks/trash", authMiddleware(handlers.Task.EmptyTrash))
	r.DELETE("/api/v1/tasks/trash/{id}", authMiddleware(handlers.Task.DeleteFromTrash))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.PATCH("/api/v1/tasks/{id}/status", authMiddleware(handlers.Task.UpdateStatus))
	r.PATCH("/api/v1/tasks/{id}/trash", authMiddleware(handlers.Task.MoveToTrash))
	r.PATCH("/api/v1/tasks/{id}/restore", authMiddleware(handlers.Task.Restore))
	r.GET("/api/v1/users/{id}/tasks", authMiddleware(handlers.Task.ListForUser))

	// Notifications
	r.POST("/api/v1/notifications", authMiddleware(handlers.Notification.Create))
	r.GET("/api/v1/notifications/unread-count", authMiddleware(handlers.Notification.UnreadCount))
	r.GET("/api/v1/notifications/{id}", authMiddleware(handlers.Notification.Get))
	r.DELETE("/api/v1/notifications/{id}", authMiddleware(handlers.Notification.Delete))
	r.GET("/api/v1/users/{id}/notifications", authMiddleware(handlers.Notification.ListForUser))
	r.DELETE("/api/v1/users/{id}/notifications", authMiddleware(handlers.Notification.DeleteAllForUser))

	// Inbox
	r.GET("/api/v1/inbox", authMiddleware(handlers.Inbox.Senders))
	r.POST("/api/v1/inbox", authMiddleware(handlers.Inbox.Send))
	r.GET("/api/v1/inbox/{id}", authMiddleware(handlers.Inbox.Open))

	return r
}
