// SPDX-License-Identifier: MPL-2.0

package main

import cmd "runec/cmd/runec"

func main() {
	cmd.Execute()
}
