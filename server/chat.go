package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/auditor/assistant"
	"github.com/seo-optimizer/auditor/stats"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// chatSend answers one message. A failed answer is still a 200 carrying the
// assistant-style error message, so the transcript stays consistent.
func (s *Server) chatSend(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message is required",
		})
		return
	}

	if !s.chat.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": assistant.ErrMissingAPIKey.Error(),
		})
		return
	}

	msg := s.chat.Send(c.Request.Context(), strings.TrimSpace(req.Message))

	if s.metrics != nil {
		s.metrics.RecordChat(msg.Error)
	}
	if s.usage != nil {
		u := stats.Usage{ChatMessages: 1}
		if msg.Error {
			u.ChatFailures = 1
		}
		s.usage.Add(u)
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) chatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages": s.chat.Messages(),
		"grounded": s.chat.ReportContext() != "",
	})
}
