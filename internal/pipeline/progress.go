package pipeline

// Stage names reported while a build runs, in pipeline order.
const (
	StageReading    = "Reading"
	StageProcessing = "Processing"
	StageSummary    = "Summary"
	StageSaving     = "Saving"
	StageLinking    = "Linking"
	StageDone       = "Done"
)

// ProgressEvent is one progress report. Counters are monotonically
// non-decreasing across a build.
type ProgressEvent struct {
	PagesTotal  int    `json:"pages_total"`
	PagesDone   int    `json:"pages_done"`
	CurrentPage int    `json:"current_page"`
	Stage       string `json:"stage"`
	Detail      string `json:"detail"`
	Percent     int    `json:"percent"`
}

// Observer receives progress events. Implementations must not block;
// the pipeline is single-threaded and waits for the call to return.
type Observer interface {
	Progress(ev ProgressEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev ProgressEvent)

func (f ObserverFunc) Progress(ev ProgressEvent) { f(ev) }

// percent maps route counters onto a coarse 2..99 range; the build only
// reports 100 via its caller once the file is on disk.
func percent(total, done int) int {
	if total <= 0 {
		return 25
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}
	pct := int(float64(done)/float64(total)*100 + 0.5)
	if pct < 2 {
		pct = 2
	}
	if pct > 99 {
		pct = 99
	}
	return pct
}
