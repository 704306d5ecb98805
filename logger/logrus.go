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

package logger

import (
	"github.com/sirupsen/logrus"
)

// Logrus echoes log entries to a logrus.Logger. The entry tag becomes the
// "tag" field and repeated entries carry a "repeat" field.
//
//	logger.SetEcho(logger.Logrus{Logger: logrus.StandardLogger()})
type Logrus struct {
	Logger *logrus.Logger
}

// WriteEntry implements the EntryWriter interface.
func (l Logrus) WriteEntry(e Entry) {
	f := logrus.Fields{"tag": e.Tag}
	if e.Repeated > 0 {
		f["repeat"] = e.Repeated + 1
	}
	l.Logger.WithTime(e.Timestamp).WithFields(f).Info(e.Detail)
}

// Write implements the io.Writer interface. The bytes are logged as a single
// untagged entry.
func (l Logrus) Write(p []byte) (int, error) {
	l.Logger.Info(string(p))
	return len(p), nil
}
