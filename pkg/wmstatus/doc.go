// Package wmstatus provides the public API for embedding the go-wmstatus
// status line generator. It allows third-party applications to run the
// refresh loop as a library component with full lifecycle management and
// configuration flexibility.
//
// # Basic Usage
//
// The simplest way to use wmstatus is to create an instance from a
// configuration file:
//
//	s, err := wmstatus.New("/path/to/wmstatus.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop()
//
//	if err := s.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
// Three configuration sources are supported:
//
//   - Disk file: Use [New] to load from a filesystem path
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for dynamic configurations
//
// # Lifecycle Management
//
// The [WMStatus] interface provides full lifecycle control:
//
//   - [WMStatus.Start] begins the refresh loop
//   - [WMStatus.Stop] gracefully shuts down the instance
//   - [WMStatus.Restart] reloads configuration and restarts
//   - [WMStatus.ReloadConfig] swaps configuration without stopping
//   - [WMStatus.IsRunning] checks if the instance is active
//
// All methods are thread-safe and can be called from any goroutine.
//
// # Outputs
//
// By default Start connects to the X server and writes each composed line
// to the root window name, which minimalist window managers such as dwm
// render as their status bar. Set [Options.Output] to redirect lines
// elsewhere, for example to standard output:
//
//	s, _ := wmstatus.New("/path/to/wmstatus.lua", &wmstatus.Options{
//		Output: wmstatus.NewWriterOutput(os.Stdout),
//	})
//	s.Start()
//
// [WMStatus.Render] composes a single line on demand without starting the
// loop at all.
//
// # Error Handling
//
// A failed readout never aborts the status line; it renders as the
// configured placeholder and is reported through [ErrorHandler]:
//
//	s.SetErrorHandler(func(err error) {
//		log.Printf("wmstatus error: %v", err)
//	})
//
// The handler is called asynchronously; do not block in the handler.
package wmstatus
