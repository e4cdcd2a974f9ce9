// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func newFs(t *testing.T, dirs []string, files []string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, d := range dirs {
		if err := fs.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", d, err)
		}
	}
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("{}"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", f, err)
		}
	}
	return fs
}

func TestProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		dirs      []string
		files     []string
		wantErr   bool
		wantCount int
	}{
		{
			name:      "single descriptor",
			dirs:      []string{"/p"},
			files:     []string{"/p/Game.uproject"},
			wantCount: 1,
		},
		{
			name:      "multiple descriptors are tolerated",
			dirs:      []string{"/p"},
			files:     []string{"/p/Game.uproject", "/p/Other.uproject"},
			wantCount: 2,
		},
		{
			name:      "extension match ignores case",
			dirs:      []string{"/p"},
			files:     []string{"/p/Game.UPROJECT"},
			wantCount: 1,
		},
		{
			name:    "no descriptor",
			dirs:    []string{"/p"},
			files:   []string{"/p/readme.md"},
			wantErr: true,
		},
		{
			name:    "nested descriptor does not count",
			dirs:    []string{"/p/sub"},
			files:   []string{"/p/sub/Game.uproject"},
			wantErr: true,
		},
		{
			name:    "directory named like a descriptor does not count",
			dirs:    []string{"/p/Fake.uproject"},
			wantErr: true,
		},
		{
			name:    "root missing",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := newFs(t, tt.dirs, tt.files)
			report, err := Project(fs, "/p")

			if tt.wantErr {
				if err == nil {
					t.Fatal("Project() returned nil error, want MissingProjectDescriptor")
				}
				if !errors.Is(err, ErrMissingProjectDescriptor) {
					t.Errorf("error should wrap ErrMissingProjectDescriptor, got: %v", err)
				}
				var mpd *MissingProjectDescriptorError
				if !errors.As(err, &mpd) || mpd.Root != "/p" {
					t.Errorf("error should be *MissingProjectDescriptorError naming /p, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Project() unexpected error: %v", err)
			}
			if len(report.Descriptors) != tt.wantCount {
				t.Errorf("len(Descriptors) = %d, want %d", len(report.Descriptors), tt.wantCount)
			}
		})
	}
}

func TestPlugin(t *testing.T) {
	t.Parallel()

	fs := newFs(t, []string{"/p/Plugins/UnrealCLR"}, []string{"/p/Plugins/NotADir"})

	if err := Plugin(fs, "/p/Plugins/UnrealCLR", "UnrealCLR"); err != nil {
		t.Errorf("Plugin() on existing folder = %v, want nil", err)
	}

	for _, folder := range []string{"/p/Plugins/Missing", "/p/Plugins/NotADir"} {
		err := Plugin(fs, folder, "UnrealCLR")
		if !errors.Is(err, ErrMissingPlugin) {
			t.Errorf("Plugin(%q) = %v, want ErrMissingPlugin", folder, err)
		}
	}
}

func TestMissingErrorsMessages(t *testing.T) {
	t.Parallel()

	if got := (&MissingProjectDescriptorError{Root: "/p"}).Error(); got != `project file not found in "/p" folder` {
		t.Errorf("Error() = %q", got)
	}
	if got := (&MissingPluginError{PluginName: "UnrealCLR", PluginFolder: "/p/Plugins/UnrealCLR"}).Error(); got != `UnrealCLR plugin is not present in "/p/Plugins/UnrealCLR"` {
		t.Errorf("Error() = %q", got)
	}
}
