/*
Copyright © 2022 the l1b authors.
This file is part of l1b.

l1b is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

l1b is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with l1b.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command l1b reads MODIS Level-1B swath files and converts sensor
// counts to radiance.
package main

import (
	"fmt"
	"os"

	"github.com/a301/l1b/l1butil"
)

func main() {
	cfg := l1butil.InitializeConfig()

	var commands int
	for _, arg := range os.Args { // Count the number of supplied commands.
		if len(arg) > 0 && arg[0] != '-' {
			commands++
		}
	}
	if commands == 1 { // If only one command was supplied, start the GUI server.
		cfg.StartWebServer()
	}

	// If more than one command was supplied, run in CLI mode.
	if err := cfg.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
