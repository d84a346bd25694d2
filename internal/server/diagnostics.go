package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"mealpulse/internal/nutrition"
	"mealpulse/internal/sources"
	"mealpulse/internal/utility"
)

// SourceDebugHandler runs the full external-source fan-out for a query and
// reports per-adapter timing and outcome. Intended for operators diagnosing
// a misbehaving source site.
func (s *Server) SourceDebugHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}

	started := time.Now()
	records, reports := s.aggregator.SearchAllDebug(ctx, query)
	if records == nil {
		records = []nutrition.FoodRecord{}
	}
	if reports == nil {
		reports = []sources.AdapterReport{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":      query,
		"elapsed_ms": time.Since(started).Milliseconds(),
		"records":    records,
		"adapters":   reports,
	})
}

// SystemHealthHandler reports host-level runtime statistics alongside the
// database pool health.
func (s *Server) SystemHealthHandler(c echo.Context) error {
	uptime := time.Since(StartTime)

	healthData := map[string]interface{}{
		"status": "online",
		"runtime": map[string]interface{}{
			"uptime":     uptime.String(),
			"started_at": StartTime.Format(time.RFC3339),
		},
		"database": s.db.Health(),
	}

	// Each stat is best effort: a gopsutil failure drops that section
	// instead of failing the whole report.
	if hInfo, err := host.Info(); err == nil {
		healthData["runtime"].(map[string]interface{})["os"] = hInfo.OS
		healthData["runtime"].(map[string]interface{})["platform"] = hInfo.Platform
		healthData["runtime"].(map[string]interface{})["arch"] = hInfo.KernelArch
		healthData["runtime"].(map[string]interface{})["hostname"] = hInfo.Hostname
		healthData["cpu"] = map[string]interface{}{
			"process_count": hInfo.Procs,
		}
	}
	if cpuPercent, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercent) > 0 {
		cpuData, ok := healthData["cpu"].(map[string]interface{})
		if !ok {
			cpuData = map[string]interface{}{}
			healthData["cpu"] = cpuData
		}
		cpuData["usage_percent"] = fmt.Sprintf("%.2f%%", cpuPercent[0])
	}
	if v, err := mem.VirtualMemory(); err == nil {
		healthData["memory"] = map[string]interface{}{
			"total":        fmt.Sprintf("%.2f GB", float64(v.Total)/1e9),
			"used":         fmt.Sprintf("%.2f GB", float64(v.Used)/1e9),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
			"free":         fmt.Sprintf("%.2f GB", float64(v.Free)/1e9),
		}
	}
	if d, err := disk.Usage("/"); err == nil {
		healthData["disk"] = map[string]interface{}{
			"total":        fmt.Sprintf("%.2f GB", float64(d.Total)/1e9),
			"used":         fmt.Sprintf("%.2f GB", float64(d.Used)/1e9),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, healthData)
}
