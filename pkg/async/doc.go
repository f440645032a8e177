// Package async runs work in the background and reports its outcome through a future.
//
// It is used for fire-and-forget dispatch from request handlers: the handler
// starts the work, returns its response immediately, and the work keeps its
// own error containment. A panic inside the function is recovered and
// reported as ErrPanic instead of crashing the process.
//
// # Usage
//
//	future := async.Exec(context.WithoutCancel(ctx), value, notify)
//
//	// Optionally wait for the result:
//	if err := future.AwaitWithTimeout(time.Second); err != nil {
//		log.Println(err)
//	}
//
// # Errors
//
//   - ErrTimeout: AwaitWithTimeout elapsed before the function returned
//   - ErrPanic: the function panicked
//
// If the context is already cancelled when the goroutine starts, the function
// is not called and the future resolves to ctx.Err().
package async
