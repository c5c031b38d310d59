// Package emit holds the per-method analysis and text helpers shared by every
// backend's class emitter.
//
// Backends decide syntax; this package decides the rules that must not drift
// between them: call shape (static, instance, constructor), reserved-name
// renaming, which arguments need null checks, text buffers or ownership
// invalidation, and how nullable handle returns are treated.
package emit
