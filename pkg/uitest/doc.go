// Package uitest runs tempo's Bubble Tea models in tests.
//
//	func TestModel(t *testing.T) {
//	    t.Parallel()
//
//	    tm := uitest.NewTestModel(t, ui.NewModel(nil, profiles), uitest.Compact)
//	    tm.Type("h")
//	    uitest.WaitForText(t, tm.Output(), "hello")
//	}
package uitest
