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

// Package notifications allow the frame driver to tell the embedding
// application about events that it may want to present to the user, for
// example a desync between peers or a lost connection.
//
// The frame driver does not decide what happens next. A desync is reported
// and the simulation continues. A disconnection is reported and the driver
// refuses to tick again. What the user sees, if anything, is up to the
// application.
package notifications
