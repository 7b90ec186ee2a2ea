// Package bootstrap orchestrates the lifecycle of a recordkit process.
//
// NewApp loads nothing by itself: it takes an already loaded config,
// applies defaults, validates it, initializes logging and telemetry, and
// builds the record registry that the rest of the process shares through
// App.Records. The registry is registered as the first component.
//
// # Quick Start
//
//	var cfg SystemConfig
//	_ = config.LoadConfig("recordd", &cfg)
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.OnStart(func(ctx context.Context) error {
//	    app.Records.Create(record.Names.Radio, radio)
//	    return nil
//	})
//	return app.Run(ctx)
//
// Run blocks until SIGINT/SIGTERM or context cancellation; RunTask runs a
// finite task with the same startup and shutdown sequence.
package bootstrap
