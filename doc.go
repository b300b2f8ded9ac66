// Package officepool supervises a pool of headless office-suite processes
// (LibreOffice or OpenOffice) used as document conversion workers.
//
// # Quick Start
//
// Describe the pool with a Configuration, build it, and start the workers:
//
//	cfg, err := officepool.NewConfiguration().Apply(
//	    officepool.WithPortNumbers(2002, 2003),
//	    officepool.WithWorkDir("/var/tmp/officepool"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pool, err := cfg.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := pool.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Stop(context.Background())
//
//	err = pool.Execute(ctx, func(ctx context.Context, w *officepool.Worker) error {
//	    return convert(ctx, w.Endpoint().ConnectString())
//	})
//
// # Configuration
//
// Setters that validate their argument return an error wrapping
// ErrInvalidArgument; the others return the configuration for chaining:
//
//	cfg := officepool.NewConfiguration().
//	    SetMaxTasksPerWorker(100).
//	    SetTaskExecutionTimeout(time.Minute)
//
//	if _, err := cfg.SetOfficeHome("/opt/libreoffice"); err != nil {
//	    log.Fatal(err)
//	}
//
// Every setter has a matching With option for Apply. Build checks the
// configuration as a whole and fails with ErrInvalidState when the office
// installation, the template profile, or the work directory is unusable.
//
// # Endpoints
//
// The pool has one worker per endpoint. With ProtocolSocket (the default)
// the endpoints are the configured ports; with ProtocolPipe they are the
// configured pipe names. The inactive sequence is ignored.
//
// # Process Inspection
//
// Workers are found and killed through a ProcessManager. Unless one is set
// explicitly, Build picks one: native inspection through gopsutil when it
// works on this platform, ps(1) on Linux (run through the run-as prefix when
// one is set), and a portable fallback elsewhere.
//
// # Error Handling
//
// Errors wrap package sentinels and can be matched with errors.Is:
//
//	if errors.Is(err, officepool.ErrInvalidState) {
//	    // fix the office home or work directory
//	}
//	if errors.Is(err, officepool.ErrQueueTimeout) {
//	    // every worker stayed busy for the whole queue timeout
//	}
package officepool
