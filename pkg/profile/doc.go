// Package profile groups ordered [rule.Rule]s under a label.
//
// [Profile.Apply] folds the enabled rules over an input string, left to
// right, and returns the result. Disabled rules are skipped without being
// invoked, so a disabled DateTime rule never reads the clock.
//
// Profiles are extended and edited in place: [Profile.AddRule] appends,
// [Profile.SetEnabled] toggles and [Profile.Move] reorders. Callers that
// share a profile between independent editors should hand each editor its
// own [Profile.Clone].
//
// A [Collection] holds every profile available in a session, keyed by label.
package profile
