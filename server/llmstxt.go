package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/auditor/llmstxt"
	"github.com/seo-optimizer/auditor/stats"
)

func (s *Server) llmsTxt(c *gin.Context) {
	form := llmstxt.NewFormData()
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid form data",
		})
		return
	}

	text := llmstxt.Generate(form, s.now())

	if s.metrics != nil {
		s.metrics.RecordLlmsTxt()
	}
	if s.usage != nil {
		s.usage.Add(stats.Usage{LlmsTxtGenerated: 1})
	}

	if c.Query("download") != "" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, llmstxt.Filename))
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (s *Server) llmsTxtTemplate(c *gin.Context) {
	form, err := llmstxt.Template(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, form)
}

func (s *Server) llmsTxtSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"steps":     llmstxt.Steps,
		"templates": llmstxt.TemplateNames(),
	})
}
