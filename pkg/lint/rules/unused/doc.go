// Package unused provides lint rules that find declarations nothing refers
// to. They are whole-file rules: each needs to see every declaration and
// every use, so they run after the tree walk.
//
// Rules in this package:
//   - no-unused-imports: import whose definitions are never referenced
//   - no-unused-vars: local variable or parameter never read
package unused
