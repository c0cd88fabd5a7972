package web

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/videogen/outputs-preview/internal/browse"
	"github.com/videogen/outputs-preview/internal/catalog"
	"github.com/videogen/outputs-preview/internal/drive"
	"github.com/videogen/outputs-preview/internal/models"
)

const (
	idleHint       = "Select filters, then click Search to load videos."
	noResultsText  = "No videos found. Check your folder numbers, names, and model filters."
	passFailedText = "Could not load videos from Drive: "
	permissionHint = " (make sure the Outputs folder is shared with the service account)"
)

type option struct {
	Name     string
	Selected bool
}

type pageData struct {
	Categories []option
	Models     []option
	Info       string
	Error      string
	Warning    string
	Result     *models.Result
}

// selectionFromQuery reads repeated category and model parameters.
// A request that is not a search and names nothing gets every option
// preselected, matching the initial form state.
func selectionFromQuery(c echo.Context, searching bool) models.Selection {
	q := c.QueryParams()
	sel := models.Selection{Categories: q["category"], Models: q["model"]}
	if !searching && len(sel.Categories) == 0 && len(sel.Models) == 0 {
		sel.Categories = catalog.CategoryNames()
		sel.Models = catalog.Models()
	}
	return sel
}

func newPageData(sel models.Selection) pageData {
	return pageData{
		Categories: options(catalog.CategoryNames(), sel.Categories),
		Models:     options(catalog.Models(), sel.Models),
	}
}

func options(all, selected []string) []option {
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}
	out := make([]option, len(all))
	for i, name := range all {
		out[i] = option{Name: name, Selected: on[name]}
	}
	return out
}

// isSelectionError reports whether err is the user's fault.
func isSelectionError(err error) bool {
	return errors.Is(err, catalog.ErrEmptySelection) ||
		errors.Is(err, catalog.ErrUnknownCategory) ||
		errors.Is(err, catalog.ErrUnknownModel)
}

func (s *Server) handlePage(c echo.Context) error {
	searching := c.QueryParam("search") == "1"
	sel := selectionFromQuery(c, searching)
	data := newPageData(sel)

	if !searching {
		data.Info = idleHint
		return s.render(c, http.StatusOK, data)
	}

	result, err := s.searcher.Search(c.Request().Context(), sel, browse.Options{PrefetchVideos: true})
	switch {
	case err == nil:
	case isSelectionError(err):
		data.Error = capitalize(err.Error()) + "."
		return s.render(c, http.StatusBadRequest, data)
	default:
		s.logger.Error().Err(err).Msg("Search failed")
		data.Error = passFailedText + err.Error()
		if drive.IsPermissionError(err) {
			data.Error += permissionHint
		}
		return s.render(c, http.StatusBadGateway, data)
	}

	data.Result = result
	if result.NoResults {
		data.Warning = noResultsText
	}
	return s.render(c, http.StatusOK, data)
}

func (s *Server) render(c echo.Context, code int, data pageData) error {
	var buf bytes.Buffer
	if err := s.tpl.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

func (s *Server) handleMedia(c echo.Context) error {
	id := c.Param("id")
	video, data, err := s.searcher.Media(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, browse.ErrUnknownMedia) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown media")
		}
		s.logger.Error().Err(err).Str("file_id", id).Msg("Media download failed")
		return echo.NewHTTPError(http.StatusBadGateway, "media download failed")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "video/mp4")
	w.Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	http.ServeContent(w, c.Request(), video.Title, time.Time{}, bytes.NewReader(data))
	return nil
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) handleAPISearch(c echo.Context) error {
	sel := selectionFromQuery(c, true)
	result, err := s.searcher.Search(c.Request().Context(), sel, browse.Options{})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, result)
	case isSelectionError(err):
		return c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
	default:
		s.logger.Error().Err(err).Msg("API search failed")
		return c.JSON(http.StatusBadGateway, apiError{Error: err.Error()})
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
