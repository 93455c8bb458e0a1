package monitor

import (
	"net/http"
	"os"
	"time"

	"bursary-management-api/config"
	"bursary-management-api/models"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage serves a small operational status page plus a JSON
// status endpoint for the front end to poll.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Bursary API Monitor</title>
  <style>
    body { background: #0f0f0f; color: #e0e0e0; font-family: -apple-system, sans-serif; padding: 20px; }
    .card { background: rgba(255,255,255,0.05); border: 1px solid rgba(255,255,255,0.1); border-radius: 12px; padding: 1.5rem; margin-bottom: 1rem; max-width: 640px; }
    h1 { font-size: 1.8rem; }
    td { padding: 4px 12px 4px 0; }
  </style>
</head>
<body>
  <h1>Bursary API Monitor</h1>
  <div class="card"><table id="status"></table></div>
  <script>
    async function refresh() {
      const res = await fetch('/monitor/status');
      const data = await res.json();
      document.getElementById('status').innerHTML =
        Object.entries(data).map(([k, v]) => '<tr><td>' + k + '</td><td>' + v + '</td></tr>').join('');
    }
    refresh();
    setInterval(refresh, 5000);
  </script>
</body>
</html>`))
	})

	router.GET("/monitor/status", func(c *gin.Context) {
		status := gin.H{
			"uptime":   time.Since(startedAt).Round(time.Second).String(),
			"database": "ok",
		}

		var applications int64
		if err := config.DB.Model(&models.BursaryApplication{}).Where("delete_at IS NULL").Count(&applications).Error; err != nil {
			status["database"] = "error: " + err.Error()
		} else {
			status["applications"] = applications
		}

		var floats int64
		if err := config.DB.Model(&models.FundFloat{}).Where("delete_at IS NULL").Count(&floats).Error; err == nil {
			status["fund_floats"] = floats
		}

		c.JSON(http.StatusOK, status)
	})
}

// RegisterLogsRoute exposes the backend log behind a token.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("LOG_ACCESS_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
