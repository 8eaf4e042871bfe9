package article

import (
	"context"

	"github.com/SergeyParamoshkin/articlefront/internal/model"
)

// Source is where articles come from. *client.Client satisfies it.
type Source interface {
	ListArticles(ctx context.Context, page int, search string) (*model.ArticlePage, error)
	GetArticleByID(ctx context.Context, id int64) (*model.ArticleDetail, error)
}
