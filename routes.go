package main

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/articlefront/internal/logger"
	"github.com/SergeyParamoshkin/articlefront/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func (a *App) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(a.sugarLogger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Middleware)

	r.NotFound(a.articles.NotFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, render.M{"status": "ok"})
	})

	r.Get("/", a.articles.ListArticles)                  // GET /?page=2&search=go
	r.Get("/GetArticles/{page}", a.articles.ListArticles) // GET /GetArticles/2?search=go

	r.Route("/article/{article_id}", func(r chi.Router) {
		r.Use(a.articles.ArticleCtx)             // Load the article on the request context
		r.Get("/", a.articles.CanonicalRedirect) // GET /article/42
		r.Get("/{slug}", a.articles.GetArticle)  // GET /article/42/hello-world
	})

	FileServer(r, "/assets", http.FS(web.Assets()))

	return r
}

// FileServer serves root under path.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}
