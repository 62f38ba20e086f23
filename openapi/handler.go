package openapi

import (
	"bytes"
	"net/http"
	"sync"
)

// Handler returns an http.Handler that serves the built document as YAML.
// The document is assembled once on first request and cached.
func (s *Spec) Handler() http.Handler {
	var (
		once sync.Once
		body []byte
		err  error
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			var doc *Document
			doc, err = s.Build()
			if err != nil {
				return
			}
			var buf bytes.Buffer
			if err = doc.WriteYAML(&buf); err != nil {
				return
			}
			body = buf.Bytes()
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(body)
	})
}
