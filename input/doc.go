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

// Package input defines the per-frame input value of a player and the Store
// that holds local and remote input values for the rollback window.
//
// Remote input that has not arrived yet is predicted by repeating the most
// recent authoritative value for that player. When the real value arrives and
// it differs from the value that was used to simulate the frame, the frame is
// marked as divergent. FirstDivergentFrame() is the trigger for a rollback.
//
// Frame numbers begin at one. Frame zero is the initial state of the
// simulation and has no inputs.
package input
