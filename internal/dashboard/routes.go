package dashboard

import (
	"net/http"

	"github.com/GGCryptoh/jarvis-inc/internal/activity"
	"github.com/GGCryptoh/jarvis-inc/internal/admin"
	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all routes on the Gin router.
func registerRoutes(router *gin.Engine, opts *StartOpts) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// Agent-facing.
	router.POST("/api/heartbeat", handleHeartbeat(opts))
	router.POST("/api/activity", handleRecordActivity(opts))
	router.GET("/api/rate-check", noStore(), handleRateCheck(opts))

	// Admin.
	adm := router.Group("/api", admin.Middleware(opts.Admin), noStore())
	adm.GET("/admin/instances", handleAdminSnapshot(opts))
	adm.PUT("/admin/instances/:id/status", handleOverrideStatus(opts))
	adm.GET("/admin/events", handleStatsStream(opts))
	adm.GET("/releases", handleListReleases(opts))
	adm.POST("/releases", handleUpsertRelease(opts))
	adm.DELETE("/releases/:version", handleDeleteRelease(opts))
}

func handleAdminSnapshot(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := opts.Fleet.Snapshot(c.Request.Context())
		if err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

type overrideRequest struct {
	Status string `json:"status"`
}

func handleOverrideStatus(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req overrideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		st, err := fleet.ParseStatus(req.Status)
		if err != nil {
			badRequest(c, "status must be online or offline")
			return
		}
		if err := opts.Fleet.Override(c.Request.Context(), c.Param("id"), st); err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": st})
	}
}

func handleRateCheck(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("instance_id")
		if id == "" {
			badRequest(c, "instance_id is required")
			return
		}
		res, err := opts.Gate.Check(c.Request.Context(), id, opts.RateWindow)
		if err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

type heartbeatRequest struct {
	InstanceID string `json:"instance_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Version    string `json:"version"`
}

func handleHeartbeat(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req heartbeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		attrs := fleet.HeartbeatAttrs{Name: req.Name, Category: req.Category, Version: req.Version}
		if err := opts.Fleet.Heartbeat(c.Request.Context(), req.InstanceID, attrs); err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type activityRequest struct {
	InstanceID string `json:"instance_id"`
	Kind       string `json:"kind"`
}

func handleRecordActivity(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req activityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		if err := opts.Gate.Record(c.Request.Context(), req.InstanceID, activity.Kind(req.Kind)); err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

func handleListReleases(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := opts.Releases.List(c.Request.Context())
		if err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"releases": list})
	}
}

type releaseRequest struct {
	Version   string `json:"version"`
	Changelog string `json:"changelog"`
}

func handleUpsertRelease(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req releaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		rel, err := opts.Releases.Upsert(c.Request.Context(), req.Version, req.Changelog)
		if err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.JSON(http.StatusOK, rel)
	}
}

func handleDeleteRelease(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := opts.Releases.Delete(c.Request.Context(), c.Param("version")); err != nil {
			writeError(c, opts.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
