package model

// PositiveDifferenceWarning is shown instead of volumes when a filtered
// sequence contains a fill station.
const PositiveDifferenceWarning = "Hay diferencias positivas en los datos filtrados."

// Result is the outcome of filtering a dataset: either ValidResult, which
// carries volumes and totals, or InvalidResult, which carries neither.
type Result interface {
	// Valid reports whether volumes were computed.
	Valid() bool
	// Len returns the number of rows in the result.
	Len() int

	isResult()
}

// ValidResult holds rows with integrated volumes and their totals.
type ValidResult struct {
	Rows   []VolumeRow
	Totals Totals
}

// InvalidResult holds the filtered rows when at least one has a strictly
// positive cut depth.
type InvalidResult struct {
	Rows []NormalizedRow
}

// Valid implements Result.
func (ValidResult) Valid() bool { return true }

// Len implements Result.
func (r ValidResult) Len() int { return len(r.Rows) }

func (ValidResult) isResult() {}

// Valid implements Result.
func (InvalidResult) Valid() bool { return false }

// Len implements Result.
func (r InvalidResult) Len() int { return len(r.Rows) }

func (InvalidResult) isResult() {}

// Rows returns the normalized rows of any result, dropping volumes.
func Rows(res Result) []NormalizedRow {
	switch r := res.(type) {
	case ValidResult:
		out := make([]NormalizedRow, len(r.Rows))
		for i, row := range r.Rows {
			out[i] = row.NormalizedRow
		}
		return out
	case InvalidResult:
		return r.Rows
	default:
		return nil
	}
}
