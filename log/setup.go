// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	Level   string // logrus level name, such as "info" or "debug".
	File    string // optional log file, rotated when it grows too large.
	MaxSize int    // maximum log file size in MB before rotating.
	Backups int    // number of rotated log files to keep.
}

// Setup configures the standard logrus logger according to the specified
// options: level and formatter, as well as additionally writing into a
// rotating log file, if requested. It returns a closer for the log file, if
// any; otherwise, the closer is a no-op.
func Setup(out io.Writer, opts Options) (io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.File == "" {
		logrus.SetOutput(out)
		return io.NopCloser(nil), nil
	}
	roller := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.Backups,
	}
	logrus.SetOutput(io.MultiWriter(out, roller))
	return roller, nil
}
