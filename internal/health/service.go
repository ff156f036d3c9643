package health

import (
	"context"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
	Goroutines int    `json:"goroutines"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// CollectHealth pings the database and Redis and reports their status.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{
		Runtime: RuntimeInfo{
			GoVersion:  runtime.Version(),
			Platform:   runtime.GOOS,
			Goroutines: runtime.NumGoroutine(),
		},
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := "disconnected"
	var dbPingMs *int64
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPingMs = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs *int64
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	result.Status = "ok"
	if dbStatus != "connected" || redisStatus != "connected" {
		result.Status = "issue"
	}
	return result
}
