package domain

// PageRecord is one extracted page of a regulation document. Records are
// immutable once stored and uniquely identified by (FileName, PageNo).
// The search engine treats a slice of PageRecord as a read-only snapshot
// for the duration of one query.
type PageRecord struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	PageNo   int    `json:"page_no"`
	Text     string `json:"text"`
	Section  string `json:"section,omitempty"`
}
