package core

// Validate checks that a raw article carries the fields the pipeline
// depends on. Content may be empty; the classifier and embedder fall back
// to the title in that case.
func (r *RawArticle) Validate() error {
	if r.URL == "" {
		return ErrEmptyURL
	}
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Source == "" {
		return ErrEmptySource
	}
	return nil
}
