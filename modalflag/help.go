// This file is part of Nightsky.
//
// Nightsky is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Nightsky is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Nightsky.  If not, see <https://www.gnu.org/licenses/>.

package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// help writes the usage message for the current mode to the output
func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	var flags strings.Builder
	md.flags.VisitAll(func(f *flag.Flag) {
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Fprintf(&flags, "  -%s %s\n", f.Name, name)
		} else {
			fmt.Fprintf(&flags, "  -%s\n", f.Name)
		}
		fmt.Fprintf(&flags, "    \t%s", usage)
		switch f.DefValue {
		case "", "0", "false", "0s":
		default:
			fmt.Fprintf(&flags, " (default %s)", f.DefValue)
		}
		flags.WriteString("\n")
	})

	if flags.Len() == 0 && len(md.subModes) == 0 {
		io.WriteString(md.Output, "No help available")
		if p := md.Path(); p != "" {
			fmt.Fprintf(md.Output, " for %s", p)
		}
		io.WriteString(md.Output, "\n")
		return
	}

	if p := md.Path(); p != "" {
		fmt.Fprintf(md.Output, "Usage for %s mode:\n", p)
	} else {
		io.WriteString(md.Output, "Usage:\n")
	}

	io.WriteString(md.Output, flags.String())

	if len(md.subModes) > 0 {
		if flags.Len() > 0 {
			io.WriteString(md.Output, "\n")
		}

		width := 0
		for _, m := range md.subModes {
			width = max(width, len(m.Name))
		}

		io.WriteString(md.Output, "  sub-modes:\n")
		for _, m := range md.subModes {
			if m.Help == "" {
				fmt.Fprintf(md.Output, "    %s\n", m.Name)
			} else {
				fmt.Fprintf(md.Output, "    %-*s  %s\n", width, m.Name, m.Help)
			}
		}
		fmt.Fprintf(md.Output, "  default: %s\n", md.subModes[0].Name)
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(md.Output, "\n%s\n", md.additionalHelp)
	}
}
