package article

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SergeyParamoshkin/articlefront/internal/errresponse"
	"github.com/SergeyParamoshkin/articlefront/internal/model"
	"github.com/go-chi/chi/v5"
)

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// ArticleCtx middleware loads the article named by the article_id URL
// parameter from the upstream and puts it on the request context. A
// malformed id stops here with 400, any fetch failure with 404.
func (h *Handler) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "article_id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			h.RenderError(w, r, errresponse.ErrInvalidRequest(fmt.Errorf("article id %q: not a non-negative integer", raw)))

			return
		}

		article, err := h.source.GetArticleByID(r.Context(), id)
		if err != nil {
			h.RenderError(w, r, errresponse.ErrNotFound(err))

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArticleFromContext returns the article loaded by ArticleCtx.
func ArticleFromContext(ctx context.Context) (*model.ArticleDetail, bool) {
	a, ok := ctx.Value(ctxKeyArticle).(*model.ArticleDetail)

	return a, ok && a != nil
}
