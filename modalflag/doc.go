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

// Package modalflag wraps the flag package in the Go standard library so that
// a command can be split into modes, each mode with its own flags.
//
// Arguments are given to NewArgs() and parsed in layers. Each layer is parsed
// with Parse(), after which flags for the layer have been set and the mode (if
// any) has been appended to the mode path.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubMode("PLAY", "network match against a peer")
//	md.AddSubMode("LOCAL", "match against a bot in this process")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return nil
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "PLAY":
//		md.NewMode()
//		horizon := md.AddInt("horizon", 8, "rollback horizon")
//		...
//	}
//
// The first sub-mode added is the default and is selected when the first
// non-flag argument does not name a sub-mode. Sub-mode names are case
// insensitive.
//
// Non-flag arguments remaining after a call to Parse() are available with
// RemainingArgs() and GetArg().
package modalflag
