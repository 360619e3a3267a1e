package pipeline

import "fmt"

// DataFormatError reports an unparseable required column in the input data.
// It is fatal to the whole analysis run.
type DataFormatError struct {
	Column string
	Row    int
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid value in column %q (row %d): %v", e.Column, e.Row, e.Err)
	}
	return fmt.Sprintf("invalid value in column %q (row %d)", e.Column, e.Row)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// EmptySeriesError reports that no valid rows survived preprocessing, so the
// forecaster has nothing to fit. Fatal to the whole analysis run.
type EmptySeriesError struct {
	RawRows int
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("no valid order rows after filtering (%d raw rows)", e.RawRows)
}

// DegenerateForecastWarning signals that the history is too short for a
// stable seasonal fit. The forecast is still produced; callers should
// surface a low-confidence indicator.
type DegenerateForecastWarning struct {
	HistoryDays int
	MinDays     int
}

func (e *DegenerateForecastWarning) Error() string {
	return fmt.Sprintf("only %d days of history (minimum %d for a stable seasonal fit)", e.HistoryDays, e.MinDays)
}

// RenderError reports a malformed structure passed to an alert formatter.
// Fatal to that formatter call only; sibling computations are unaffected.
type RenderError struct {
	Template string
	Reason   string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render %s alert: %s", e.Template, e.Reason)
}
