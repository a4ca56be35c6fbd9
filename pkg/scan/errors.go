package scan

import "errors"

// ErrExtraction is returned when a scoreboard image cannot be segmented or
// read. It aborts the pipeline run; nothing is committed.
var ErrExtraction = errors.New("scoreboard extraction failed")
