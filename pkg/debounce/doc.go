// Package debounce runs the last of a burst of calls once the burst settles.
//
// Each Trigger restarts the delay. When it elapses, the most recent function
// runs with a context that is cancelled as soon as a newer Trigger arrives,
// so slow work started for a stale input can stop early. Cancel drops any
// pending call and cancels the running one.
//
//	d := debounce.New(300 * time.Millisecond)
//	for _, q := range keystrokes {
//		d.Trigger(ctx, func(ctx context.Context) { search(ctx, q) })
//	}
package debounce
