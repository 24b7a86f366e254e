// Package fanout runs one task per input concurrently and joins on all of
// them before returning.
//
// Unlike a worker pool there is no concurrency cap: callers bound the work by
// bounding the input. Each task's outcome is reported positionally as a
// Result, so one failure never affects its siblings.
//
// Example usage:
//
//	results := fanout.Gather(ctx, ids, func(ctx context.Context, id int) (*Detail, error) {
//		return api.GetDetail(ctx, id)
//	})
//	for _, r := range results {
//		if r.Err != nil {
//			continue // degrade this item only
//		}
//		use(r.Value)
//	}
//
// Cancelling ctx cancels every in-flight task; Gather still waits for all of
// them to return.
package fanout
