package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse is the payload of the error page. Err is logged server side
// and never rendered.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	Message    string `json:"message"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrUpstream(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		Message:        "Could not load article data.",
	}
}

func ErrNotFound(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     http.StatusText(http.StatusNotFound),
		Message:        "Article not found.",
	}
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     http.StatusText(http.StatusBadRequest),
		Message:        "Invalid request.",
	}
}

// ErrPageNotFound is used for unknown routes.
var ErrPageNotFound = &ErrResponse{
	HTTPStatusCode: http.StatusNotFound,
	StatusText:     http.StatusText(http.StatusNotFound),
	Message:        "Page not found.",
}
