package worksheet

import (
	ws "github.com/abhisek/statsheet/internal/worksheet"
)

// unsavedPreviewMsg is sent when the scratch render after generation ends.
type unsavedPreviewMsg struct {
	Result *ws.ExportResult
	Err    error
}

// exportDoneMsg is sent when the export render completes or fails.
type exportDoneMsg struct {
	Req    ws.ExportRequest
	Result *ws.ExportResult
	Err    error
}

// previewDoneMsg is sent once the exported document has been previewed and
// recorded. Result.PreviewErr is set when no image could be made.
type previewDoneMsg struct {
	Result *ws.ExportResult
}
