package directive

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// ListedPost is one link in a !blog_list block.
type ListedPost struct {
	Number int    // 1-based position
	Slug   string // file name without extension
	Name   string // slug with hyphens shown as spaces
	Href   string
}

// ListPosts turns the file names of the posts directory into listing
// entries. Names are sorted so the numbering does not depend on directory
// order; the index page is left out.
func ListPosts(names []string, blogPath string) []ListedPost {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	var posts []ListedPost
	for _, name := range sorted {
		if name == IndexPage {
			continue
		}
		slug := Stem(name)
		posts = append(posts, ListedPost{
			Number: len(posts) + 1,
			Slug:   slug,
			Name:   DisplayName(slug),
			Href:   blogPath + slug + "/",
		})
	}
	return posts
}

// DisplayName renders a slug for humans: "my-first-post" -> "my first post".
func DisplayName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// BlogList renders the listing markup.
func BlogList(posts []ListedPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, p := range posts {
			b.WriteString("\n\t\t<a class=\"blog-link\" href=\"")
			b.WriteString(templ.EscapeString(p.Href))
			b.WriteString("\">\n\t\t\t<p class=\"blog-number\">no. ")
			b.WriteString(strconv.Itoa(p.Number))
			b.WriteString("</p>\n\t\t\t<p class=\"blog-name\">")
			b.WriteString(templ.EscapeString(p.Name))
			b.WriteString("</p>\n\t\t</a>\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
