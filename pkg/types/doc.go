// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the installer packages
// (exit codes, filesystem paths). These carry semantic meaning and validation
// but have no domain-specific dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
package types
