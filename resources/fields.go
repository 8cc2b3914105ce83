package resources

import (
	"html"
	"regexp"
	"time"
	"toloka-kit/domain/model"
)

func str(o *model.Object, name string) string {
	v, _ := model.Field[string](o, name)
	return v
}

func flag(o *model.Object, name string) bool {
	v, _ := model.Field[bool](o, name)
	return v
}

func num(o *model.Object, name string) int {
	v, _ := model.Field[int](o, name)
	return v
}

func when(o *model.Object, name string) time.Time {
	v, _ := model.Field[time.Time](o, name)
	return v
}

var markup = regexp.MustCompile(`<[^>]*>`)

// stripMarkup keeps the readable text of HTML instructions.
func stripMarkup(s string) string {
	return html.UnescapeString(markup.ReplaceAllString(s, " "))
}
