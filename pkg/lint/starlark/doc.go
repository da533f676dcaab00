// Package starlark loads lint rules written in Starlark.
//
// A rule script sets a few globals and defines its hooks:
//
//	name = "no-empty-block"
//	description = "Flags empty nested blocks"
//	severity = "warning"
//	kinds = ["BlockStmt"]
//	defaults = {"allow": False}
//
//	def check(ctx, node):
//	    if node.parent == "BlockStmt" and ctx.text(node) == "{}" and not ctx.options["allow"]:
//	        ctx.report(node, "empty block")
//
// The resulting *ScriptRule is an ordinary lint.Rule and is added to a
// Linter like any builtin.
package starlark
