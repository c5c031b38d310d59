package testutil

import "github.com/roach88/bindgen/internal/ir"

func recv(class string, kind ir.TypeKind) ir.Param {
	return ir.Param{Name: ir.ReceiverName, Type: ir.Handle(class, kind)}
}

func arg(name string, t ir.Type) ir.Param {
	return ir.Param{Name: name, Type: t}
}

func drop(class string) ir.Function {
	return ir.Function{
		Name:     class + "_drop",
		Method:   ir.MethodDrop,
		Comments: []string{"drops the object, freeing up the memory."},
		Inputs:   []ir.Param{recv(class, ir.Value)},
		Output:   ir.UnitType(),
	}
}

func nullable(class string) ir.Type {
	t := ir.Handle(class, ir.Value)
	t.IsNullable = true
	return t
}

// Widget returns the minimal class used by golden tests: a constructor,
// a text getter, a text setter and a disposer.
func Widget() *ir.Class {
	return &ir.Class{
		Name:     "Widget",
		Comments: []string{"A widget with a name."},
		StaticFns: []ir.Function{{
			Name:     "Widget_new",
			Method:   ir.MethodNew,
			Comments: []string{"Creates a new widget."},
			Output:   ir.Handle("Widget", ir.Value),
		}},
		SharedFns: []ir.Function{{
			Name:     "Widget_name",
			Method:   "name",
			Comments: []string{"Returns the name."},
			Inputs:   []ir.Param{recv("Widget", ir.Ref)},
			Output:   ir.Prim("c_char"),
		}},
		MutFns: []ir.Function{{
			Name:   "Widget_set_name",
			Method: "set_name",
			Inputs: []ir.Param{recv("Widget", ir.RefMut), arg("name", ir.Prim("c_char"))},
			Output: ir.UnitType(),
		}},
		OwnFns: []ir.Function{drop("Widget")},
	}
}

// WidgetKit returns Widget together with Crate, a container that takes a
// widget over by value and hands it back as a nullable result.
func WidgetKit() ir.Classes {
	crate := &ir.Class{
		Name:     "Crate",
		Comments: []string{"A crate holds at most one widget."},
		StaticFns: []ir.Function{{
			Name:     "Crate_new",
			Method:   ir.MethodNew,
			Comments: []string{"Creates an empty crate."},
			Output:   ir.Handle("Crate", ir.Value),
		}},
		MutFns: []ir.Function{
			{
				Name:     "Crate_push",
				Method:   "push",
				Comments: []string{"Moves the widget into the crate."},
				Inputs:   []ir.Param{recv("Crate", ir.RefMut), arg("widget", ir.Handle("Widget", ir.Value))},
				Output:   ir.UnitType(),
			},
			{
				Name:     "Crate_take",
				Method:   "take",
				Comments: []string{"Takes the widget out again. Returns <NULL> when the crate is empty."},
				Inputs:   []ir.Param{recv("Crate", ir.RefMut)},
				Output:   nullable("Widget"),
			},
		},
		OwnFns: []ir.Function{drop("Crate")},
	}
	return ir.Classes{Widget(), crate}
}

// TimerSuite returns a small but representative slice of a speedrun timer
// ABI, covering every marshalling rule: text in both directions, JSON,
// booleans, narrow integers, nullable factories, ownership moves, borrowed
// returns, renamed methods and lock guards.
func TimerSuite() ir.Classes {
	return ir.Classes{
		{
			Name:     "Segment",
			Comments: []string{"A Segment describes a point in a speedrun that is suitable for storing a", "split time."},
			StaticFns: []ir.Function{{
				Name:     "Segment_new",
				Method:   ir.MethodNew,
				Comments: []string{"Creates a new Segment with the name given."},
				Inputs:   []ir.Param{arg("name", ir.Prim("c_char"))},
				Output:   ir.Handle("Segment", ir.Value),
			}},
			SharedFns: []ir.Function{{
				Name:     "Segment_name",
				Method:   "name",
				Comments: []string{"Accesses the name of the segment."},
				Inputs:   []ir.Param{recv("Segment", ir.Ref)},
				Output:   ir.Prim("c_char"),
			}},
			OwnFns: []ir.Function{drop("Segment")},
		},
		{
			Name:     "Run",
			Comments: []string{"A Run stores the split times for a specific game and category of a runner."},
			StaticFns: []ir.Function{
				{
					Name:     "Run_new",
					Method:   ir.MethodNew,
					Comments: []string{"Creates a new Run object with no segments."},
					Output:   ir.Handle("Run", ir.Value),
				},
				{
					Name:     "Run_parse",
					Method:   "parse",
					Comments: []string{"Attempts to parse a splits file. Returns <NULL> if it couldn't be parsed."},
					Inputs:   []ir.Param{arg("data", ir.Prim("c_char")), arg("path", ir.Prim("c_char"))},
					Output:   nullable("Run"),
				},
			},
			SharedFns: []ir.Function{
				{
					Name:     "Run_clone",
					Method:   ir.MethodClone,
					Comments: []string{"Clones the Run object."},
					Inputs:   []ir.Param{recv("Run", ir.Ref)},
					Output:   ir.Handle("Run", ir.Value),
				},
				{
					Name:   "Run_game_name",
					Method: "game_name",
					Inputs: []ir.Param{recv("Run", ir.Ref)},
					Output: ir.Prim("c_char"),
				},
				{
					Name:   "Run_attempt_count",
					Method: "attempt_count",
					Inputs: []ir.Param{recv("Run", ir.Ref)},
					Output: ir.Prim("u32"),
				},
				{
					Name:   "Run_len",
					Method: "len",
					Inputs: []ir.Param{recv("Run", ir.Ref)},
					Output: ir.Prim("usize"),
				},
				{
					Name:     "Run_segment",
					Method:   "segment",
					Comments: []string{"Accesses a certain segment of this Run."},
					Inputs:   []ir.Param{recv("Run", ir.Ref), arg("index", ir.Prim("usize"))},
					Output:   ir.Handle("Segment", ir.Ref),
				},
				{
					Name:   "Run_has_been_modified",
					Method: "has_been_modified",
					Inputs: []ir.Param{recv("Run", ir.Ref)},
					Output: ir.Prim("bool"),
				},
			},
			MutFns: []ir.Function{
				{
					Name:   "Run_set_game_name",
					Method: "set_game_name",
					Inputs: []ir.Param{recv("Run", ir.RefMut), arg("game", ir.Prim("c_char"))},
					Output: ir.UnitType(),
				},
				{
					Name:     "Run_push_segment",
					Method:   "push_segment",
					Comments: []string{"Pushes the segment provided to the end of the list of segments of this Run."},
					Inputs:   []ir.Param{recv("Run", ir.RefMut), arg("segment", ir.Handle("Segment", ir.Value))},
					Output:   ir.UnitType(),
				},
			},
			OwnFns: []ir.Function{drop("Run")},
		},
		{
			Name:     "Timer",
			Comments: []string{"A Timer provides all the capabilities necessary for doing speedrun attempts."},
			StaticFns: []ir.Function{{
				Name:     "Timer_new",
				Method:   ir.MethodNew,
				Comments: []string{"Creates a new Timer based on a Run object storing all the information", "about the splits. The Run object needs to have at least one segment, so", "that the Timer can store the final time. If a Run object with no segments", "is provided, the Timer creation fails and <NULL> is returned."},
				Inputs:   []ir.Param{arg("run", ir.Handle("Run", ir.Value))},
				Output:   nullable("Timer"),
			}},
			SharedFns: []ir.Function{
				{
					Name:   "Timer_current_phase",
					Method: "current_phase",
					Inputs: []ir.Param{recv("Timer", ir.Ref)},
					Output: ir.Prim("u8"),
				},
				{
					Name:   "Timer_get_run",
					Method: "get_run",
					Inputs: []ir.Param{recv("Timer", ir.Ref)},
					Output: ir.Handle("Run", ir.Ref),
				},
				{
					Name:   "Timer_save_as_lss",
					Method: "save_as_lss",
					Inputs: []ir.Param{recv("Timer", ir.Ref)},
					Output: ir.Prim("c_char"),
				},
			},
			MutFns: []ir.Function{
				{
					Name:   "Timer_split",
					Method: "split",
					Inputs: []ir.Param{recv("Timer", ir.RefMut)},
					Output: ir.UnitType(),
				},
				{
					Name:     "Timer_set_run",
					Method:   "set_run",
					Comments: []string{"Replaces the Run object used by the Timer. Returns <TRUE> on success."},
					Inputs:   []ir.Param{recv("Timer", ir.RefMut), arg("run", ir.Handle("Run", ir.Value))},
					Output:   ir.Prim("bool"),
				},
			},
			OwnFns: []ir.Function{
				{
					Name:     "Timer_into_shared",
					Method:   "into_shared",
					Comments: []string{"Converts the Timer into a Shared Timer to use with the Auto Splitting Runtime."},
					Inputs:   []ir.Param{recv("Timer", ir.Value)},
					Output:   ir.Handle("SharedTimer", ir.Value),
				},
				drop("Timer"),
			},
		},
		{
			Name:     "SharedTimer",
			Comments: []string{"A Shared Timer that can be used to share a single timer object with multiple", "owners."},
			SharedFns: []ir.Function{
				{
					Name:   "SharedTimer_share",
					Method: "share",
					Inputs: []ir.Param{recv("SharedTimer", ir.Ref)},
					Output: ir.Handle("SharedTimer", ir.Value),
				},
				{
					Name:   "SharedTimer_read",
					Method: "read",
					Inputs: []ir.Param{recv("SharedTimer", ir.Ref)},
					Output: ir.Handle("TimerReadLock", ir.Value),
				},
				{
					Name:   "SharedTimer_write",
					Method: "write",
					Inputs: []ir.Param{recv("SharedTimer", ir.Ref)},
					Output: ir.Handle("TimerWriteLock", ir.Value),
				},
			},
			OwnFns: []ir.Function{drop("SharedTimer")},
		},
		{
			Name:     "TimerReadLock",
			Comments: []string{"A Timer Read Lock allows temporary read access to a timer."},
			SharedFns: []ir.Function{{
				Name:   "TimerReadLock_timer",
				Method: "timer",
				Inputs: []ir.Param{recv("TimerReadLock", ir.Ref)},
				Output: ir.Handle("Timer", ir.Ref),
			}},
			OwnFns: []ir.Function{drop("TimerReadLock")},
		},
		{
			Name:     "TimerWriteLock",
			Comments: []string{"A Timer Write Lock allows temporary write access to a timer."},
			MutFns: []ir.Function{{
				Name:   "TimerWriteLock_timer",
				Method: "timer",
				Inputs: []ir.Param{recv("TimerWriteLock", ir.RefMut)},
				Output: ir.Handle("Timer", ir.RefMut),
			}},
			OwnFns: []ir.Function{drop("TimerWriteLock")},
		},
		{
			Name: "Layout",
			StaticFns: []ir.Function{
				{
					Name:   "Layout_new",
					Method: ir.MethodNew,
					Output: ir.Handle("Layout", ir.Value),
				},
				{
					Name:     "Layout_default_layout",
					Method:   ir.MethodDefault,
					Comments: []string{"Creates a new default Layout."},
					Output:   ir.Handle("Layout", ir.Value),
				},
			},
			SharedFns: []ir.Function{{
				Name:   "Layout_settings_as_json",
				Method: "settings_as_json",
				Inputs: []ir.Param{recv("Layout", ir.Ref)},
				Output: ir.Prim("Json"),
			}},
			OwnFns: []ir.Function{drop("Layout")},
		},
		{
			Name:     "LayoutEditor",
			Comments: []string{"The Layout Editor allows modifying Layouts while ensuring all the different", "invariants of the Layout objects are upheld no matter what kind of", "operations are being applied."},
			StaticFns: []ir.Function{{
				Name:     "LayoutEditor_new",
				Method:   ir.MethodNew,
				Comments: []string{"Creates a new Layout Editor that modifies the Layout provided. Creation", "fails and <NULL> is returned if the Layout has no components."},
				Inputs:   []ir.Param{arg("layout", ir.Handle("Layout", ir.Value))},
				Output:   nullable("LayoutEditor"),
			}},
			MutFns: []ir.Function{
				{
					Name:   "LayoutEditor_state_as_json",
					Method: "state_as_json",
					Inputs: []ir.Param{recv("LayoutEditor", ir.RefMut)},
					Output: ir.Prim("Json"),
				},
				{
					Name:   "LayoutEditor_select",
					Method: "select",
					Inputs: []ir.Param{recv("LayoutEditor", ir.RefMut), arg("index", ir.Prim("usize"))},
					Output: ir.UnitType(),
				},
				{
					Name:   "LayoutEditor_set_component_settings_bool",
					Method: "set_component_settings_bool",
					Inputs: []ir.Param{recv("LayoutEditor", ir.RefMut), arg("index", ir.Prim("usize")), arg("value", ir.Prim("bool"))},
					Output: ir.UnitType(),
				},
			},
			OwnFns: []ir.Function{
				{
					Name:     "LayoutEditor_close",
					Method:   ir.MethodClose,
					Comments: []string{"Closes the Layout Editor and gives back access to the modified Layout."},
					Inputs:   []ir.Param{recv("LayoutEditor", ir.Value)},
					Output:   ir.Handle("Layout", ir.Value),
				},
			},
		},
	}
}
