// Package rule defines the text transformations that make up a profile.
//
// A [Rule] rewrites every occurrence of a literal pattern in its input. Two
// kinds exist:
//
//   - [Raw] replaces the pattern with a fixed replacement string.
//   - [DateTime] replaces the pattern with the current time, rendered with a
//     strftime-style format such as "%Y-%m-%d %H:%M:%S".
//
// Rules never fail. A pattern that does not occur leaves the input untouched,
// and so does an empty pattern.
//
// Rules are persisted as a [Record], which is the element type of the
// "matches" list in a profile file.
package rule
