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

// Package bots provides computer controlled players. A bot is a source of
// local input and can be used anywhere a human player can.
//
// Bots watch the match through the Present() function, which has the same
// signature as the driver's Presenter interface. What a bot sees is always the
// most recent committed frame, which may include predicted remote input. This
// is no different to what a human player sees.
package bots

import (
	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
)

// Diagnostic instances are sent over the Feedback Diagnostic channel.
type Diagnostic struct {
	Group      string
	Diagnostic string
}

// Feedback defines the channels that can be used to retrieve information from
// a running bot.
type Feedback struct {
	// buffer length of the Diagnostic channel should be sufficient long for
	// the bot. diagnostics are dropped if the channel is full
	Diagnostic chan Diagnostic
}

func newFeedback() *Feedback {
	return &Feedback{
		Diagnostic: make(chan Diagnostic, 64),
	}
}

func (f *Feedback) diagnose(group string, diagnostic string) {
	select {
	case f.Diagnostic <- Diagnostic{Group: group, Diagnostic: diagnostic}:
	default:
	}
}

// Bot defines the functions the all bots must implement.
type Bot interface {
	BotID() string
	Feedback() *Feedback

	// the input for the frame
	LocalInput(frame int) input.Value

	// the most recent committed frame
	Present(v battle.View)
}
