// Package record implements the named record registry: a thread-safe table
// through which independent goroutines publish shared services under
// string names and discover them in any start order.
//
// A publisher calls Create once; consumers call Open, which blocks until the
// payload exists, and Close when done. Destroy removes a record only when it
// has no holders and reports false otherwise.
//
//	r := record.New(record.WithConfig(cfg.Record))
//
//	go func() {
//	    radio := record.Open[*Radio](r, record.Names.Radio) // waits
//	    defer r.Close(record.Names.Radio)
//	    radio.Tune(433_920_000)
//	}()
//
//	r.Create(record.Names.Radio, NewRadio())
//
// Misuse is a contract violation: the registry logs it and panics with an
// *errors.AppError (or exits, with fatal_mode: exit). OpenContext, Acquire
// and DestroyWithRetry add cancellation, leases and retrying on top of the
// five core operations without changing them.
package record
