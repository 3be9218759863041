// SPDX-License-Identifier: MPL-2.0

package main

import cmd "fgmod-cli/cmd/fgmod"

func main() {
	cmd.Execute()
}
