package render

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", html.Minify)
	})
	return minifier
}

// Minify compacts rendered markup. On failure the input is returned as is.
func Minify(s string) string {
	out, err := getMinifier().String("text/html", s)
	if err != nil {
		return s
	}
	return out
}
