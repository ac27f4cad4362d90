package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/markview/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Document Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryDocument,
		Message:  "Document could not be decoded",
		Detail:   "The input is not a valid HAST tree. Documents must be JSON objects with a \"type\" field, or HTML.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryDocument,
		Message:  "Unsupported property value",
		Detail:   "Node properties must be plain data: strings, numbers, booleans, nil, and lists or maps of those.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryDocument,
		Message:  "Value is cyclic or too deeply nested",
		Detail:   "A property value or the node tree refers back to itself or nests deeper than the nesting limit.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryDocument,
		Message:  "Unknown node type",
		Detail:   "HAST nodes must have type root, element, text, comment, raw or doctype.",
		DocURL:   docBase + "E103",
	},

	// ============================================
	// Config Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
		Detail:   "The configuration file exists but could not be read or parsed.",
		DocURL:   docBase + "E110",
	},
	"E111": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No markview.json or markview.yaml was found.",
		DocURL:   docBase + "E111",
	},
	"E112": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "E112",
	},

	// ============================================
	// Source Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategorySource,
		Message:  "Document source not found",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategorySource,
		Message:  "Document source could not be fetched",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategorySource,
		Message:  "Unsupported document source",
		Detail:   "Sources must be local paths (.json, .html, .htm) or s3://bucket/key URLs.",
		DocURL:   docBase + "E122",
	},

	// ============================================
	// Protocol Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryProtocol,
		Message:  "Invalid preview message",
		Detail:   "Preview messages must be JSON objects with type \"snapshot\" or \"patch\".",
		DocURL:   docBase + "E130",
	},
	"E131": {
		Category: CategoryProtocol,
		Message:  "Patch could not be applied",
		Detail:   "Patch messages are RFC 6902 JSON patches applied to the previous snapshot. A snapshot must be sent first.",
		DocURL:   docBase + "E131",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
