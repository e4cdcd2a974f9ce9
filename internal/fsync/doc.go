// SPDX-License-Identifier: MPL-2.0

// Package fsync mirrors a source folder into a destination folder.
//
// A sync is best effort: a folder that cannot be created or a file that
// cannot be copied is reported as a warning and the remaining entries are
// still processed. Only a source that cannot be read at all stops a sync.
package fsync
