package urlsupaction

import "encoding/json"

// Merge combines per-batch reports into one. Issue lists are concatenated in
// the order given (batch-completion order, not deterministic across runs),
// validated/file counts are summed, and the overall status is failure if any
// batch failed. The unique-URL count is approximated as the validated-count
// sum; true deduplication across batches is not attempted.
func Merge(reports []*Report) *Report {
	merged := &Report{
		Metrics: Metrics{Status: StatusSuccess},
		Rich:    true,
	}

	for _, report := range reports {
		if report == nil {
			continue
		}

		merged.Issues = append(merged.Issues, report.Issues...)

		merged.Metrics.TotalURLs += report.Metrics.TotalURLs
		merged.Metrics.TotalFoundURLs += report.Metrics.TotalFoundURLs
		merged.Metrics.TotalFiles += report.Metrics.TotalFiles
		merged.Metrics.ProcessedFiles += report.Metrics.ProcessedFiles

		if report.Metrics.Status != StatusSuccess {
			merged.Metrics.Status = StatusFailure
		}
	}

	merged.Metrics.BrokenURLs = len(merged.Issues)
	merged.Metrics.UniqueURLs = merged.Metrics.TotalURLs
	merged.Metrics.SuccessRate = basicSuccessRate(merged.Metrics.TotalURLs, merged.Metrics.BrokenURLs)

	return merged
}

// mergedReport is the on-disk shape of a merged report. It matches the rich
// urlsup schema so the annotate and summary steps re-read it through the
// normal Parse path.
type mergedReport struct {
	Status string         `json:"status"`
	Issues []Issue        `json:"issues"`
	URLs   mergedURLStats `json:"urls"`
	Files  *rawFileStats  `json:"files,omitempty"`
}

type mergedURLStats struct {
	TotalFound  int `json:"total_found"`
	Unique      int `json:"unique"`
	Validated   int `json:"validated"`
	SuccessRate int `json:"success_rate"`
}

// Encode serializes a report in the rich urlsup JSON shape.
func (r *Report) Encode() ([]byte, error) {
	issues := r.Issues
	if issues == nil {
		issues = []Issue{}
	}

	out := mergedReport{
		Status: r.Metrics.Status,
		Issues: issues,
		URLs: mergedURLStats{
			TotalFound:  r.Metrics.TotalFoundURLs,
			Unique:      r.Metrics.UniqueURLs,
			Validated:   r.Metrics.TotalURLs,
			SuccessRate: r.Metrics.SuccessRate,
		},
	}

	if r.Metrics.TotalFiles > 0 || r.Metrics.ProcessedFiles > 0 {
		out.Files = &rawFileStats{
			Total:     r.Metrics.TotalFiles,
			Processed: r.Metrics.ProcessedFiles,
		}
	}

	return json.Marshal(out)
}
