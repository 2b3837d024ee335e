// Package protocol defines the shapes shared by the dispatcher and the MCP layer.
package protocol

// ErrorKind classifies a failed tool call.
type ErrorKind string

// Error kinds in classification priority order.
const (
	KindValidation  ErrorKind = "validation"
	KindRateLimited ErrorKind = "rate_limited"
	KindProvider    ErrorKind = "provider"
	KindTimeout     ErrorKind = "timeout"
	KindUnknownTool ErrorKind = "unknown_tool"
	KindUnexpected  ErrorKind = "unexpected"
)

// Kinds lists every error kind in classification order.
var Kinds = []ErrorKind{
	KindValidation,
	KindRateLimited,
	KindProvider,
	KindTimeout,
	KindUnknownTool,
	KindUnexpected,
}

// StatusOK marks a successful call in metrics and audit records.
const StatusOK = "ok"

// ContentTypeText is the only content item type produced.
const ContentTypeText = "text"

// ContentItem is one piece of tool output.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolCallResult is the outcome of one tool call.
type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError"`
	// Kind is set when IsError is true. It is not part of the wire shape.
	Kind ErrorKind `json:"-"`
}

// Text returns a successful single-item result.
func Text(text string) ToolCallResult {
	return ToolCallResult{Content: []ContentItem{{Type: ContentTypeText, Text: text}}}
}

// Failure returns an error-flagged single-item result.
func Failure(kind ErrorKind, text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentItem{{Type: ContentTypeText, Text: text}},
		IsError: true,
		Kind:    kind,
	}
}

// Message returns the text of the first content item.
func (r ToolCallResult) Message() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}
