// Package resilience provides retry with exponential backoff.
//
// The record registry uses it to wait out the advisory busy case of destroy:
//
//	err := resilience.RetryFunc(ctx, resilience.DefaultRetryConfig(), func() error {
//	    if !r.Destroy("radio") {
//	        return errors.Busy("radio", r.Holders("radio"))
//	    }
//	    return nil
//	})
//
// Errors are retried according to RetryConfig.RetryIf. The default honours
// AppError.Retryable and never retries context cancellation.
package resilience
