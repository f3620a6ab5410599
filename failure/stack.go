package failure

import "runtime"

const maxTraceDepth = 64

// CaptureTrace records the calling goroutine's stack as Frames, innermost
// first. skip counts frames to drop above the caller: 0 captures starting
// at the caller of CaptureTrace.
func CaptureTrace(skip int) []Frame {
	pcs := make([]uintptr, maxTraceDepth)
	// +2 skips runtime.Callers and CaptureTrace itself.
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	trace := make([]Frame, 0, n)
	for {
		fr, more := frames.Next()
		if fr.Function != "" {
			trace = append(trace, Frame{
				Function: fr.Function,
				File:     fr.File,
				Line:     fr.Line,
			})
		}
		if !more {
			break
		}
	}
	return trace
}
