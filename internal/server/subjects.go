package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/models"
)

type SubjectsHandler struct {
	Registry *subject.Registry
}

func (h *SubjectsHandler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
}

func (h *SubjectsHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subjects": h.Registry.GetAll(),
	})
}

func (h *SubjectsHandler) get(c echo.Context) error {
	s, ok := h.Registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Subject not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"subject": s})
}

// create registers a subject dynamically. Posting an existing id overwrites
// the whole definition (last write wins).
func (h *SubjectsHandler) create(c echo.Context) error {
	var req models.Subject
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id and name required")
	}
	h.Registry.Add(req)
	return c.JSON(http.StatusCreated, map[string]interface{}{"subject": req})
}
