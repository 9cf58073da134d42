package rest

import "net/http"

// Router groups the handlers mounted on the server mux.
type Router struct {
	Health       *HealthHandler
	Notification *NotificationHandler
	Push         *PushHandler
	Automation   *AutomationHandler
	Approval     *ApprovalHandler

	// User wraps routes called by signed-in clients.
	User func(http.Handler) http.Handler
	// Internal wraps service-to-service routes.
	Internal func(http.Handler) http.Handler
}

// Handler builds the route table.
func (rt Router) Handler() http.Handler {
	user := orIdentity(rt.User)
	internal := orIdentity(rt.Internal)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.Handle("POST /api/internal/notifications", internal(http.HandlerFunc(rt.Notification.Create)))
	mux.Handle("POST /api/internal/push/send", internal(http.HandlerFunc(rt.Push.Send)))
	mux.Handle("POST /api/internal/automations/{entity}", internal(http.HandlerFunc(rt.Automation.Handle)))

	mux.Handle("GET /api/notifications", user(http.HandlerFunc(rt.Notification.List)))
	mux.Handle("GET /api/notifications/unread-count", user(http.HandlerFunc(rt.Notification.UnreadCount)))
	mux.Handle("POST /api/notifications/{id}/read", user(http.HandlerFunc(rt.Notification.MarkRead)))
	mux.Handle("POST /api/notifications/read-all", user(http.HandlerFunc(rt.Notification.MarkAllRead)))

	mux.Handle("POST /api/push/subscriptions", user(http.HandlerFunc(rt.Push.Subscribe)))
	mux.Handle("DELETE /api/push/subscriptions", user(http.HandlerFunc(rt.Push.Unsubscribe)))
	// The public key is needed before the browser can subscribe, so it is not gated.
	mux.HandleFunc("GET /api/push/public-key", rt.Push.PublicKey)

	mux.Handle("POST /api/approvals/{entity}/{id}/approve", user(http.HandlerFunc(rt.Approval.Approve)))
	mux.Handle("POST /api/approvals/{entity}/{id}/reject", user(http.HandlerFunc(rt.Approval.Reject)))

	return mux
}

func orIdentity(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
