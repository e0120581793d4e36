// Package app is the composition root of promptdeck.
//
// Run loads config.toml, sets up zerolog, opens the preference store
// (TOML file or bbolt), builds the catalog client, metrics and the sync
// engine, restores the saved view, then either:
//
//   - dump mode: runs one LoadAll and prints a JSON Summary, or
//   - interactive mode: starts the TUI while the initial load, the likes
//     poller and the optional metrics server run on an errgroup.
//
//	Run()
//	 ├─> config.Load()        defaults when the file is missing
//	 ├─> logging.Setup()      JSON file, console in dump mode
//	 ├─> prefs.Open()         toml | bolt
//	 ├─> engine.New()         session ctx bounds detached like registrations
//	 ├─> engine.Restore()
//	 └─> serve()
//	      ├─> engine.LoadAll()       background, UI shows "loading"
//	      ├─> engine.StartPolling()  likes every poll_seconds
//	      ├─> metrics.Serve()        only when metrics_addr is set
//	      └─> ui.Run()               blocks; quitting cancels the rest
//
// Only startup problems are returned as errors: a malformed config, an
// unopenable preference database, a bad site URL, or a metrics listener
// that cannot bind. Network failures after startup degrade to empty data
// inside the engine and are logged.
package app
