// Package wasmbridge hosts a native library compiled to WebAssembly and
// provides the marshalling primitives that generated Go bindings call into.
//
// A Bridge owns one module instantiation: its linear memory, its allocator
// and the host callbacks the module imports from "env" (Instant_now and
// Date_now). Every native call goes through a Session, which holds the
// bridge's lock and releases every text buffer it allocated when it ends.
//
//	err := bridge.Session(ctx, func(s *wasmbridge.Session) error {
//		name, err := s.String("Any%")
//		if err != nil {
//			return err
//		}
//		_, err = s.Call("Run_set_category_name", api.EncodeU32(run), api.EncodeU32(name))
//		return err
//	})
//
// Handles are plain addresses into linear memory. Address 0 is the null
// handle; generated code rejects it with ErrNullHandle before any call.
package wasmbridge
