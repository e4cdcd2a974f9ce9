// SPDX-License-Identifier: MPL-2.0

// Package testutil builds project and reference trees for tests and wraps
// filesystem setup in helpers that fail the test on error.
package testutil
