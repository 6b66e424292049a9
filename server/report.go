package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/auditor/analyzer"
	"github.com/seo-optimizer/auditor/report"
)

const noReportMessage = "No report has been generated yet"

func (s *Server) currentView(c *gin.Context) (report.View, bool) {
	last, ok := s.lastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": noReportMessage,
		})
		return report.View{}, false
	}
	return report.NewView(last.request, last.result, s.shareLink(c, last.request), last.generatedAt), true
}

func (s *Server) reportView(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) reportSections(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sections": view.Sections,
	})
}

func (s *Server) reportHTML(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPage(&buf, view); err != nil {
		s.logger.Error("Failed to render report page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to render report",
		})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) reportPDF(c *gin.Context) {
	view, ok := s.currentView(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, view); err != nil {
		s.logger.Error("Failed to export PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to export PDF",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.PDFFilename(view.GeneratedAt)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) reportShare(c *gin.Context) {
	last, ok := s.lastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": noReportMessage,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shareUrl": s.shareLink(c, last.request),
	})
}

// share builds a link for any request without generating a report
func (s *Server) share(c *gin.Context) {
	var req analyzer.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}
	req = req.Normalize()
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please enter a URL",
		})
		return
	}

	link, err := report.ShareLink(s.shareBase(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build share link",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shareUrl": link,
	})
}
