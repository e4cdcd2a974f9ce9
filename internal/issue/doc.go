// SPDX-License-Identifier: MPL-2.0

// Package issue turns installer failures into messages a user can act on.
//
// ActionableError carries the failed operation, the path involved and a
// list of suggestions. Issue holds a longer Markdown guide for the fatal
// conditions that stop an install run, rendered with glamour.
package issue
