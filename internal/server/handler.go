package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/query"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/transform"
)

// Handler serves the portfolio API
type Handler struct {
	catalog     *Catalog
	transformer *transform.Transformer
	logger      *zap.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(catalog *Catalog, t *transform.Transformer, logger *zap.Logger) *Handler {
	if t == nil {
		t = transform.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalog: catalog, transformer: t, logger: logger}
}

// ListProjects applies filters, search and sort from the query string.
// Malformed parameters fall back to defaults instead of failing.
func (h *Handler) ListProjects(c *gin.Context) {
	params := query.ParseValues(c.Request.URL.Query())

	start := time.Now()
	projects := params.Apply(h.catalog.Projects())
	metrics.RecordQuery(time.Since(start))

	h.logger.Debug("ListProjects",
		zap.String("query", params.Values().Encode()),
		zap.Int("count", len(projects)),
	)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(projects),
		"query":    params,
		"projects": h.render(c.Query("format"), projects),
	})
}

// GetProject returns one project by id
func (h *Handler) GetProject(c *gin.Context) {
	id := c.Param("id")
	p, ok := h.catalog.Find(id)
	if !ok {
		h.logger.Warn("GetProject: not found", zap.String("project_id", id))
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	switch c.Query("format") {
	case "display":
		out, err := h.transformer.ToDisplayFormat(p)
		if err != nil {
			metrics.IncrementTransformFallback("display")
			c.JSON(http.StatusOK, transform.FallbackDisplay)
			return
		}
		c.JSON(http.StatusOK, out)
	case "export":
		out, err := h.transformer.ToExportFormat(p)
		if err != nil {
			metrics.IncrementTransformFallback("export")
			c.JSON(http.StatusOK, transform.FallbackExport)
			return
		}
		c.JSON(http.StatusOK, out)
	default:
		c.JSON(http.StatusOK, p)
	}
}

// SearchIndex returns the search index, optionally narrowed by q
func (h *Handler) SearchIndex(c *gin.Context) {
	idx := storage.SearchIndex{
		BuiltAt: time.Now().UTC(),
		Items:   h.transformer.BatchSearchIndex(h.catalog.Projects()),
	}
	items := idx.Items
	if q := c.Query("q"); q != "" {
		items = idx.Search(q)
	}
	c.JSON(http.StatusOK, gin.H{
		"builtAt": idx.BuiltAt,
		"count":   len(items),
		"items":   items,
	})
}

// Validation reports the findings of the last load
func (h *Handler) Validation(c *gin.Context) {
	result, loadedAt := h.catalog.Validation()
	c.JSON(http.StatusOK, gin.H{
		"loadedAt":   loadedAt,
		"summary":    result.Summary(),
		"validation": result,
	})
}

func (h *Handler) render(format string, projects []models.Project) any {
	switch format {
	case "display":
		return h.transformer.BatchDisplay(projects)
	case "export":
		return h.transformer.BatchExport(projects)
	default:
		return projects
	}
}
