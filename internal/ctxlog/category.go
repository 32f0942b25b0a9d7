package ctxlog

// CategoryKey is the attribute naming the class of a recoverable problem.
// Callers and tests match on it instead of message text.
const CategoryKey = "category"

const (
	CategoryFormatError         = "format_error"
	CategoryFormatWarning       = "format_warning"
	CategorySubtreeParseError   = "subtree_parse_error"
	CategoryResolutionError     = "resolution_error"
	CategoryParameterCountError = "parameter_count_error"
	CategoryMissingFolderHint   = "missing_folder_hint"
	CategoryTypeWarning         = "type_warning"
	CategoryMissingObject       = "missing_object"
	CategoryIndexWarning        = "index_warning"
)
