package pipeline

import (
	"encoding/json"
	"os"
	"time"
)

// StatusFileObserver mirrors progress into a JSON file that a polling
// front end can read. Writes are atomic (temp file + rename) and
// throttled: an event identical to the previous one is skipped unless
// enough time has passed.
type StatusFileObserver struct {
	Path     string
	Throttle time.Duration // 0 means 750ms

	last      ProgressEvent
	lastWrite time.Time
	wrote     bool
}

type statusPayload struct {
	OK bool  `json:"ok"`
	TS int64 `json:"ts"`
	ProgressEvent
}

func (o *StatusFileObserver) Progress(ev ProgressEvent) {
	throttle := o.Throttle
	if throttle <= 0 {
		throttle = 750 * time.Millisecond
	}
	now := time.Now()
	if o.wrote && ev == o.last && now.Sub(o.lastWrite) < throttle {
		return
	}
	o.last = ev
	o.lastWrite = now
	o.wrote = true

	// A failed status write never fails the build.
	_ = o.write(statusPayload{OK: true, TS: now.Unix(), ProgressEvent: ev})
}

func (o *StatusFileObserver) write(p statusPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tmp := o.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, o.Path)
}
