// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFormatter(t *testing.T) {
	formatter := &LogFormatter{}
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2026, 3, 1, 20, 14, 4, 0, time.UTC),
		Level:   log.InfoLevel,
		Message: "search decision\n",
		Data:    log.Fields{"request_id": "a1b2c3d4", "use_search": true},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "[2026-03-01 20:14:04]")
	assert.Contains(t, line, "[a1b2c3d4]")
	assert.Contains(t, line, "[info ]")
	assert.Contains(t, line, "search decision")
	assert.Contains(t, line, "use_search=true")
	assert.NotContains(t, line, "request_id=")
}

func TestLogFormatterWithoutRequestID(t *testing.T) {
	formatter := &LogFormatter{}
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2026, 3, 1, 20, 14, 4, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "search failed",
		Data:    log.Fields{},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "[--------]")
	assert.Contains(t, line, "[warn ]")
}
