// Package server exposes liveness endpoints and the authenticated
// triggers that run a reminder processing cycle.
package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/remindmail/internal/processor"
	"github.com/pathakanu/remindmail/internal/schedule"
	"github.com/sirupsen/logrus"
)

const (
	apiKeyHeader     = "x-api-key"
	cronSecretHeader = "x-cron-secret"
)

// Cycle runs one processing cycle.
type Cycle interface {
	ProcessReminders(ctx context.Context) processor.Summary
}

// Secrets are the shared secrets guarding the two triggers.
// An empty secret rejects every request to its trigger.
type Secrets struct {
	APIKey     string
	CronSecret string
}

// NewRouter builds the HTTP handler.
func NewRouter(cycle Cycle, secrets Secrets, clock schedule.Clock, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	h := &handler{cycle: cycle, clock: clock}

	r.GET("/", h.status("Reminder service is running"))
	r.GET("/health", h.status("healthy"))
	r.GET("/process-reminders", requireSecret(apiKeyHeader, secrets.APIKey, logger), h.processReminders)
	r.GET("/cron/process-reminders", requireSecret(cronSecretHeader, secrets.CronSecret, logger), h.processReminders)

	return r
}

type handler struct {
	cycle Cycle
	clock schedule.Clock
}

func (h *handler) status(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    message,
			"timestamp": h.clock.Now().Format(time.RFC3339),
		})
	}
}

// processReminders runs the cycle to completion even if the caller hangs up;
// a cancelled cycle could deliver a reminder without recording it.
func (h *handler) processReminders(c *gin.Context) {
	summary := h.cycle.ProcessReminders(context.WithoutCancel(c.Request.Context()))
	if !summary.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": summary.Error})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func requireSecret(header, secret string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(header)
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"header": header,
			}).Warn("server: unauthorized trigger")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("server: request")
	}
}
