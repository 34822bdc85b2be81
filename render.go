package pubgen

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// renderStatus writes a templ component with a specific HTTP status code.
func renderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func notFoundPage(blogPath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Not found</title></head>"+
			"<body><h1>"+http.StatusText(http.StatusNotFound)+"</h1>"+
			"<p>Nothing was built at this path. <a href=\""+templ.EscapeString(blogPath)+"\">Back to the blog</a></p>"+
			"</body></html>\n")
		return err
	})
}
