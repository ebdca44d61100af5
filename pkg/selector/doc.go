// Package selector picks a profile for an input using CEL expressions.
//
// Expressions have access to variables:
//   - `input` (string): The text about to be expanded
//   - `labels` (list<string>): Labels of all loaded profiles
//
// And to these functions, besides CEL's standard library and the cel-go
// strings and lists extensions:
//   - words(string): The input split on whitespace
//   - lines(string): The input split on newlines
//
// Expressions must return a boolean, for example:
//   - input.contains(":now")
//   - input.startsWith("//")
//   - words(input).exists(w, w.startsWith("@"))
//   - size(lines(input)) > 1 && "multiline" in labels
package selector
