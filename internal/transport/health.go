package transport

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/noman024/pixalate-brandsafety/internal/config"
	"github.com/noman024/pixalate-brandsafety/internal/logger"
)

// healthCheck reports service status, host resource usage and the effective
// configuration surface.
func healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Debug("Health check requested")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"status":      "ok",
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
				"system_info": systemInfo(),
				"config": gin.H{
					"api_host":     cfg.Host,
					"api_port":     cfg.Port,
					"openai_model": cfg.OpenAIModel,
					"data_dir":     cfg.DataDir,
					"log_level":    cfg.LogLevel,
				},
			},
		})
	}
}

// systemInfo collects best-effort host metrics; a metric that cannot be read
// is simply omitted.
func systemInfo() gin.H {
	info := gin.H{
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if percentages, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percentages) > 0 {
		info["cpu_percent"] = percentages[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info["memory_percent"] = vm.UsedPercent
	}
	if usage, err := disk.Usage("/"); err == nil {
		info["disk_percent"] = usage.UsedPercent
	}
	return info
}
