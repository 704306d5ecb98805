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

// Package config holds the settings of the nightsky command.
//
// Settings are read from the environment first. Every environment variable
// has the prefix NIGHTSKY_. For example:
//
//	NIGHTSKY_HORIZON=6 NIGHTSKY_TICK_RATE=60 nightsky local
//
// Settings can then be overridden with a prefs string of the form:
//
//	"rollback.horizon::6; tick.rate::60"
//
// The list of keys is given by Keys(). The final settings are checked with
// Validate().
package config
