// SPDX-License-Identifier: MPL-2.0

// hotcompiler installs UnrealCLR into an Unreal Engine project and
// compiles its managed game modules.
package main

import cmd "github.com/unrealclr/hotcompiler/cmd/hotcompiler"

func main() {
	cmd.Execute()
}
