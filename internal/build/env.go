// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"maps"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// LoadEnvFile parses a dotenv file into sorted KEY=VALUE pairs.
// A missing file yields no pairs and no error.
func LoadEnvFile(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}

	pairs := make([]string, 0, len(vars))
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		pairs = append(pairs, k+"="+vars[k])
	}
	return pairs, nil
}
