// Package ir provides the intermediate representation of a C-style ABI.
//
// This package contains type definitions and trivial classification helpers
// only. All other internal packages import ir; ir imports nothing internal.
// This keeps IR the foundational layer shared by every backend.
//
// Key design constraints:
//   - IR records are immutable once built and shared read-only by all backends
//   - Type.Kind is meaningful only when Type.IsCustom is true
//   - Every Function lives in exactly one Class bucket, chosen by the minimum
//     access level it needs (static, shared, mut, own)
//   - JSON tags use snake_case
package ir
