package controllers

import (
	"net/http"

	"star-songs/backend/app/dto"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceVersion = "1.0.0"

type HealthController struct {
	DB  *gorm.DB
	Rdb *redis.Client // nil when the throttle runs in-process
}

func NewHealthController(gdb *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: gdb, Rdb: rdb}
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// DBHealth runs a real query so a dead connection shows up here before it
// shows up in user traffic. When Redis backs the login throttle it gets
// pinged too.
func (c *HealthController) DBHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.DB.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.DBHealthResponse{Status: "unhealthy", Database: "disconnected", Message: err.Error()})
		return
	}
	resp := dto.DBHealthResponse{Status: "healthy", Database: "connected", Message: "Database connection is healthy"}
	if c.Rdb != nil {
		if err := c.Rdb.Ping(r.Context()).Err(); err != nil {
			resp.Status = "unhealthy"
			resp.Redis = "disconnected"
			resp.Message = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Redis = "connected"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *HealthController) Pool(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.PoolStatsResponse{Status: "unhealthy"})
		return
	}
	stats := sqlDB.Stats()
	status := "healthy"
	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, dto.PoolStatsResponse{
		Status:          status,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDurationMS:  stats.WaitDuration.Milliseconds(),
		MaxOpen:         stats.MaxOpenConnections,
	})
}

func (c *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ServiceInfoResponse{
		Name:        "star-songs",
		Version:     serviceVersion,
		Description: "Artists and songs catalog with JWT authentication",
		Endpoints: map[string]string{
			"artists": "/v1/artists",
			"songs":   "/v1/songs",
			"auth":    "/auth",
			"admin":   "/admin/users",
			"health":  "/health",
		},
	})
}

func (c *HealthController) NotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not found")
}
