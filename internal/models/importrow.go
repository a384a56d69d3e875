package models

// RawRow is one spreadsheet row after header normalization: canonical
// field names, original cell text, untrimmed. Unmapped columns have
// already been dropped.
type RawRow map[string]string

// ImportRow is the validated form of a RawRow. A row is valid only when
// question, answer and category are all non-empty after trimming and the
// category name exists in the client's known category list. Errors holds
// one human-readable reason per failed check.
type ImportRow struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Category  string   `json:"category"`
	Source    string   `json:"source,omitempty"`
	WordCount int      `json:"wordCount"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
}

// ImportPreview is the response of the import preview endpoint. Rows is
// capped for display; the counts always cover the whole parsed input.
type ImportPreview struct {
	Rows         []ImportRow `json:"rows"`
	TotalRows    int         `json:"totalRows"`
	ValidCount   int         `json:"validCount"`
	InvalidCount int         `json:"invalidCount"`
	Truncated    bool        `json:"truncated"`
}
