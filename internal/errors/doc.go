// Package errors provides structured, actionable error messages for markview.
//
// Every error carries a code from a fixed registry (e.g. "E100") that maps
// to a category, a short message, a longer explanation and a documentation
// URL. Errors can additionally carry the location in the offending document
// and a hint on how to fix the problem.
//
// # Error Categories
//
//   - document: HAST input that cannot be decoded or compared
//   - config: markview.json / markview.yaml problems
//   - source: documents that cannot be located or fetched
//   - protocol: malformed live-preview messages
//
// # Usage
//
//	err := errors.New("E100").
//	    WithOffset("post.json", data, syntaxErr.Offset).
//	    WithSuggestion("Check that the file is valid HAST JSON")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Document could not be decoded
//	//
//	//   post.json:3:14
//	//
//	//        2 │   "type": "root",
//	//   →    3 │   "children": [,
//	//          │              ^
//	//
//	//   Hint: Check that the file is valid HAST JSON
package errors
