// Package style provides lint rules about how TTCN-3 code is written.
//
// Rules in this package:
//   - no-empty: empty block nested in another block
//   - prefer-const: variable never modified after initialization
//   - no-unnecessary-valueof: valueof applied to a value
package style
