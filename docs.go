// Package resolvelog provides a best-effort asynchronous event log for the
// script dependency resolution subsystem.
//
// Overview:
// Callers hand the logger structured events (requests submitted to the
// resolver, responses received, failures) from any number of goroutines. The
// logger serializes them into a single append-only text log without blocking
// the caller and without any explicit lifecycle management: the consumer
// goroutine is started lazily by the first submission and retires itself
// after an idle period.
//
// Key properties:
// - Fire-and-forget Log: never blocks past the offer timeout, never panics
// - Bounded hand-off queue (default capacity 64); overflow drops events
// - Exactly one consumer goroutine at a time, started on demand
// - Idle self-retirement: the consumer exits after a quiet poll timeout
// - One log file per consumer run, flushed after every record
// - Per-record failure isolation: a broken renderer cannot end the run
// - Optional event rate limiting
//
// Getting started:
//
//	package main
//
//	import "github.com/gourdian25/resolvelog"
//
//	func main() {
//	    log := resolvelog.Default()
//
//	    log.Log(resolvelog.RequestSubmitted{
//	        ScriptPath: "build.main.kts",
//	        Request:    request,
//	    })
//
//	    log.Log(resolvelog.ResponseReceived{
//	        ScriptPath: "build.main.kts",
//	        Response: resolvelog.ResolutionResponse{
//	            Classpath:       []string{"lib/a.jar", "lib/b.jar"},
//	            SourcePaths:     []string{"lib/a-sources.jar"},
//	            ImplicitImports: []string{"org", "example", "*"},
//	        },
//	    })
//	}
//
// Delivery is best-effort by design: if the queue stays full past the offer
// timeout (default 50ms) the event is silently dropped rather than slowing
// the caller's real work. DroppedEvents exposes a counter for tests and
// diagnostics; nothing is reported back to the submitting call site.
//
// Record format:
//
// Each record is a timestamp, the event body and a blank separator line. The
// body is a constructor-style block, one "field = value" per line:
//
//	2025-04-19T10:00:00.123 - ResponseReceived(
//		scriptPath = build.main.kts,
//		response = ResolutionResponse(
//			classpath = lib/a.jar:lib/b.jar,
//			sourcePaths = lib/a-sources.jar,
//			implicitImports = org.example.*,
//			errors = NO ERROR
//	)
//	)
//
// Event variants outside the built-in set are accepted too: a variant that
// implements RecordRenderer renders itself, anything else goes through a
// generic printer that lists the value's exported fields.
//
// Configuration:
//
//	config := resolvelog.DefaultConfig()
//	config.LogsDir = "/var/log/myresolver"
//	config.PollTimeout = 10 * time.Second
//	config.MaxEventRate = 200 // events/second
//
//	log, err := resolvelog.New(config)
//
// The log directory defaults per platform (Library/Logs on macOS, the
// application data directory on Windows, a dotfile directory elsewhere) and
// each consumer run writes its own file, named
// "resolver-<yyyyMMdd-HHmmss-SSS>.log" after the run's start time.
//
// Testing:
//
// Set Config.Output to capture records without touching the filesystem, and
// shrink the timeouts so idle retirement happens quickly:
//
//	var buf bytes.Buffer
//	config := resolvelog.DefaultConfig()
//	config.Output = &buf
//	config.PollTimeout = 100 * time.Millisecond
//
// There is no Close and no shutdown hook: a process exiting mid-write may
// lose the in-flight record. The log is a diagnostic aid, not a journal.
package resolvelog
