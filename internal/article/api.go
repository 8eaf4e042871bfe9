package article

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/SergeyParamoshkin/articlefront/internal/articleresponse"
	"github.com/SergeyParamoshkin/articlefront/internal/config"
	"github.com/SergeyParamoshkin/articlefront/internal/errresponse"
	"github.com/SergeyParamoshkin/articlefront/internal/logger"
	"github.com/SergeyParamoshkin/articlefront/internal/slug"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const (
	ListTemplate   = "articles.html"
	DetailTemplate = "article_detail.html"
	ErrorTemplate  = "error.html"
)

var errNoRecords = errors.New("upstream returned no articles")

// View renders a named page template.
type View interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) error
}

type Options struct {
	// PageSize must match the upstream default page size.
	PageSize     int
	SlugMismatch config.SlugPolicy
}

type Handler struct {
	source    Source
	view      View
	sanitizer articleresponse.Sanitizer
	opts      Options
}

func NewHandler(source Source, view View, sanitizer articleresponse.Sanitizer, opts Options) *Handler {
	if opts.SlugMismatch == "" {
		opts.SlugMismatch = config.SlugRedirect
	}

	return &Handler{
		source:    source,
		view:      view,
		sanitizer: sanitizer,
		opts:      opts,
	}
}

// ListArticles renders one page of articles. The page comes from the
// {page} URL parameter or the page query parameter, the optional filter
// from the search query parameter.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		h.RenderError(w, r, errresponse.ErrInvalidRequest(err))

		return
	}
	search := r.URL.Query().Get("search")

	data, err := h.source.ListArticles(r.Context(), page, search)
	if err != nil {
		h.RenderError(w, r, errresponse.ErrUpstream(err))

		return
	}
	if len(data.Data) == 0 {
		h.RenderError(w, r, errresponse.ErrUpstream(errNoRecords))

		return
	}

	resp := articleresponse.NewArticleListResponse(data, h.opts.PageSize, search)
	h.render(w, r, ListTemplate, resp)
}

// GetArticle renders the article loaded by ArticleCtx. A slug that differs
// from the one derived from the title is redirected to the canonical URL or
// served, depending on the SlugMismatch option.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := ArticleFromContext(r.Context())
	if !ok {
		h.RenderError(w, r, errresponse.ErrNotFound(nil))

		return
	}

	resp := articleresponse.NewArticleDetailResponse(article, h.sanitizer)

	if requested := chi.URLParam(r, "slug"); requested != resp.Slug && resp.Slug != "" {
		if h.opts.SlugMismatch == config.SlugRedirect {
			h.redirectCanonical(w, r, resp.Slug)

			return
		}
		logger.FromContext(r.Context()).Infow("slug mismatch",
			"article_id", chi.URLParam(r, "article_id"),
			"requested", requested,
			"expected", resp.Slug,
		)
	}

	h.render(w, r, DetailTemplate, resp)
}

// CanonicalRedirect answers /article/{article_id} with a redirect to the
// URL carrying the article slug. Articles without a slug are served as is.
func (h *Handler) CanonicalRedirect(w http.ResponseWriter, r *http.Request) {
	article, ok := ArticleFromContext(r.Context())
	if !ok {
		h.RenderError(w, r, errresponse.ErrNotFound(nil))

		return
	}

	expected := slug.Make(article.Title)
	if expected == "" {
		h.GetArticle(w, r)

		return
	}

	h.redirectCanonical(w, r, expected)
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.RenderError(w, r, errresponse.ErrPageNotFound)
}

// RenderError logs e.Err and writes the error page. Clients asking for JSON
// get the error payload as JSON instead.
func (h *Handler) RenderError(w http.ResponseWriter, r *http.Request, e *errresponse.ErrResponse) {
	log := logger.FromContext(r.Context())
	if e.Err != nil {
		log.Warnw(e.Message, "status", e.HTTPStatusCode, "err", e.Err)
	}

	if wantsJSON(r) {
		if err := render.Render(w, r, e); err != nil {
			log.Errorw("render error payload", "err", err)
		}

		return
	}

	if err := h.view.Render(w, r, e.HTTPStatusCode, ErrorTemplate, e); err != nil {
		log.Errorw("render error page", "err", err)
		http.Error(w, e.StatusText, e.HTTPStatusCode)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if err := h.view.Render(w, r, http.StatusOK, name, data); err != nil {
		logger.FromContext(r.Context()).Errorw("render page", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) redirectCanonical(w http.ResponseWriter, r *http.Request, expected string) {
	target := "/article/" + chi.URLParam(r, "article_id") + "/" + url.PathEscape(expected)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func pageParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "page")
	if raw == "" {
		raw = r.URL.Query().Get("page")
	}
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("page %q: not an integer", raw)
	}
	if page < 1 {
		return 1, nil
	}

	return page, nil
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")

	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
