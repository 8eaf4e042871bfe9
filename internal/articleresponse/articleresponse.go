package articleresponse

import (
	"html/template"

	"github.com/SergeyParamoshkin/articlefront/internal/author"
	"github.com/SergeyParamoshkin/articlefront/internal/model"
	"github.com/SergeyParamoshkin/articlefront/internal/slug"
)

// ArticleResponse is one enriched record of the list page. The embedded
// upstream fields are left untouched; Slug and ShortAuthorName are derived.
type ArticleResponse struct {
	*model.Article

	Slug            string `json:"slug"`
	ShortAuthorName string `json:"shortAuthorName"`
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{
		Article:         article,
		Slug:            slug.Make(article.Title),
		ShortAuthorName: author.First(article.Author),
	}
}

// ArticleListResponse is the context of the list page.
type ArticleListResponse struct {
	Articles    []*ArticleResponse
	CurrentPage int
	TotalPages  int
	PageSize    int
	SearchTerm  string
}

// NewArticleListResponse enriches every record of page. Null records in the
// upstream collection are skipped.
func NewArticleListResponse(page *model.ArticlePage, pageSize int, search string) *ArticleListResponse {
	list := make([]*ArticleResponse, 0, len(page.Data))
	for _, article := range page.Data {
		if article == nil {
			continue
		}
		list = append(list, NewArticleResponse(article))
	}

	return &ArticleListResponse{
		Articles:    list,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		PageSize:    pageSize,
		SearchTerm:  search,
	}
}

// Sanitizer turns upstream HTML into markup safe to render.
type Sanitizer interface {
	HTML(raw string) template.HTML
}

// ArticleDetailResponse is the context of the detail page.
type ArticleDetailResponse struct {
	Article     *model.ArticleDetail
	Slug        string
	ShortAuthor string
	Abstract    template.HTML
	Body        template.HTML
	Extra       []model.Field
}

func NewArticleDetailResponse(article *model.ArticleDetail, s Sanitizer) *ArticleDetailResponse {
	return &ArticleDetailResponse{
		Article:     article,
		Slug:        slug.Make(article.Title),
		ShortAuthor: author.First(article.Authors),
		Abstract:    s.HTML(article.Abstract),
		Body:        s.HTML(article.Content),
		Extra:       article.Extra(),
	}
}
