// Package widgetbind is the Go binding generated for the Widget and Crate
// fixtures. Its tests run the binding against a small native module that
// counts its calls.
package widgetbind

//go:generate go test .. -run TestWidgetBindings_Current -update
