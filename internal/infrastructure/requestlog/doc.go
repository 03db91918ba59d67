// Package requestlog writes the append-only request log.
//
// Every inbound slash command and every successful Home Assistant response
// body is written as one JSON line. The file is advisory: nothing reads it
// back, and a failing write never fails a request.
//
// Writes go through lumberjack, which opens the file with O_APPEND, holds a
// mutex around each write and rotates by size. Concurrent requests therefore
// never interleave partial lines.
//
//	request_log:
//	  enabled: true
//	  path: "heizung.log"
//	  max_size: 10      # megabytes before rotation
//	  max_backups: 5
//	  max_age: 90       # days
//	  compress: false
package requestlog
