package services

import (
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderService turns scenario descriptions into HTML. Output is cached by
// key since the catalog does not change at runtime.
type RenderService struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewRenderService() *RenderService {
	return &RenderService{cache: make(map[string]string)}
}

// RenderMarkdown converts md to HTML, reusing the cached output for key
func (s *RenderService) RenderMarkdown(key, md string) string {
	s.mu.RLock()
	out, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return out
	}

	out = toHTML(md)

	s.mu.Lock()
	s.cache[key] = out
	s.mu.Unlock()
	return out
}

// parsers keep state, so each document gets a fresh one
func toHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
