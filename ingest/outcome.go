package ingest

import "github.com/techpress/newsfeed/core"

// Outcome is the terminal state of one article's trip through the pipeline.
type Outcome string

const (
	// OutcomeSaved means the article was indexed and persisted.
	OutcomeSaved Outcome = "saved"
	// OutcomeSkipped means the article was dropped without error, most
	// commonly because its URL is already stored.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a pipeline stage failed and the article was not
	// persisted.
	OutcomeFailed Outcome = "failed"
)

// Reason qualifies a skipped or failed outcome.
type Reason string

const (
	ReasonDuplicate  Reason = "duplicate"
	ReasonInFlight   Reason = "in_flight"
	ReasonValidation Reason = "validation"
	ReasonEmbedding  Reason = "embedding"
	ReasonIndex      Reason = "index"
	ReasonStorage    Reason = "storage"
)

// Result reports what happened to one raw article.
type Result struct {
	URL       string
	Outcome   Outcome
	Reason    Reason        // set for skipped and failed outcomes
	ArticleID string        // set for saved outcomes
	Category  core.Category // set for saved outcomes
	Err       error         // set for failed outcomes
}

// SourceReport aggregates the results of one ingestion pass over a source.
type SourceReport struct {
	Source  string
	Fetched int
	Saved   int
	Skipped int
	Failed  int
	Results []Result
}

func (r *SourceReport) add(result Result) {
	r.Results = append(r.Results, result)
	switch result.Outcome {
	case OutcomeSaved:
		r.Saved++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}
