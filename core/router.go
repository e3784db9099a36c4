package core

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// NewRouter constructs the Gin engine with routes wired. Protected routes sit
// behind RequireAuth; /register, /signIn, /healthz, and /statusz are open.
func NewRouter(cfg Config, store *sessions.CookieStore, registry SessionRegistry, identity *IdentityService, tasks *TaskService, metrics *MetricsService) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/statusz", func(c *gin.Context) {
		st, err := CollectServiceStatus(c.Request.Context(), metrics, registry, startedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to collect status")
			return
		}
		c.JSON(http.StatusOK, st)
	})

	r.POST("/register", func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		if err := identity.Register(c.Request.Context(), req.Name, req.Password); err != nil {
			respondServiceError(c, err)
			return
		}

		metrics.Record(c.Request.Context(), OpRegister)
		c.Status(http.StatusOK)
	})

	r.POST("/signIn", func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		token, err := identity.SignIn(c.Request.Context(), req.Name, req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		if err := establishSessionCookie(c, cfg, store, token); err != nil {
			// The session was created but cannot be carried; drop it again.
			registry.Revoke(token)
			respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to set session cookie")
			return
		}

		metrics.Record(c.Request.Context(), OpSignIn)
		c.Status(http.StatusOK)
	})

	auth := RequireAuth(store, registry, metrics)

	r.POST("/signOut", auth, func(c *gin.Context) {
		err := identity.SignOut(tokenFromContext(c))
		// The cookie is cleared even when revocation failed, so the client
		// is never stuck holding a stale cookie.
		clearSessionCookie(c, cfg, store)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		metrics.Record(c.Request.Context(), OpSignOut)
		c.Status(http.StatusOK)
	})

	r.DELETE("/delUser", auth, func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			return
		}

		if err := identity.DeleteAccount(c.Request.Context(), owner, tokenFromContext(c)); err != nil {
			respondServiceError(c, err)
			return
		}

		clearSessionCookie(c, cfg, store)
		metrics.Record(c.Request.Context(), OpAccountDelete)
		c.Status(http.StatusOK)
	})

	r.POST("/task", auth, func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			return
		}

		var req struct {
			Title   string `json:"title"`
			DueDate string `json:"due_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}

		id, err := tasks.Create(c.Request.Context(), owner, req.Title, req.DueDate)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		metrics.Record(c.Request.Context(), OpTaskCreate)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	r.PUT("/task", auth, func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			return
		}

		var req struct {
			ID      int64  `json:"id"`
			Title   string `json:"title"`
			DueDate string `json:"due_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}
		if req.ID <= 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
			return
		}

		if err := tasks.Update(c.Request.Context(), owner, req.ID, req.Title, req.DueDate); err != nil {
			respondServiceError(c, err)
			return
		}

		metrics.Record(c.Request.Context(), OpTaskUpdate)
		c.Status(http.StatusOK)
	})

	r.DELETE("/task/:id", auth, func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
			return
		}

		if err := tasks.Delete(c.Request.Context(), owner, id); err != nil {
			respondServiceError(c, err)
			return
		}

		metrics.Record(c.Request.Context(), OpTaskDelete)
		c.Status(http.StatusOK)
	})

	r.GET("/tasks", auth, func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			return
		}

		items, err := tasks.List(c.Request.Context(), owner)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		metrics.Record(c.Request.Context(), OpTaskList)
		c.JSON(http.StatusOK, items)
	})

	r.GET("/isLoggedIn", auth, func(c *gin.Context) {
		owner, _ := ownerFromContext(c)
		c.JSON(http.StatusOK, gin.H{"name": owner})
	})

	return r
}
