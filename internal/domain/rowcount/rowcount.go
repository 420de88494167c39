// Package rowcount holds the row-count result model and the threshold rule
// applied to rows returned by a spreadsheet range.
package rowcount

// Threshold is the row count a range must exceed to be flagged.
const Threshold = 20

// DefaultRange is read when no range is configured.
const DefaultRange = "Sheet1"

// Result is the outcome of counting the rows of one range.
type Result struct {
	Success          bool `json:"success"`
	RowCount         int  `json:"rowCount"`
	ExceedsThreshold bool `json:"exceedsThreshold"`
}

// Evaluate builds a successful Result for rows. Negative counts are treated as zero.
func Evaluate(rows int) Result {
	if rows < 0 {
		rows = 0
	}
	return Result{
		Success:          true,
		RowCount:         rows,
		ExceedsThreshold: rows > Threshold,
	}
}
