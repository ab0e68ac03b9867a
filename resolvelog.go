package resolvelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	defaultFilenamePrefix  = "resolver"
	defaultQueueCapacity   = 64
	defaultOfferTimeout    = 50 * time.Millisecond
	defaultPollTimeout     = 5 * time.Second
	defaultTimestampFormat = "2006-01-02T15:04:05.000"
)

// diag is the logger's own diagnostic stream, kept separate from the event
// log file. Lifecycle chatter stays below the warn threshold; only internal
// errors surface by default.
var diag = zerolog.New(os.Stderr).
	Level(zerolog.WarnLevel).
	With().Timestamp().Str("component", "resolvelog").
	Logger()

// Config defines the tunables of the resolver event logger. The zero value
// of every field means "use the default"; Validate rejects negatives.
type Config struct {
	LogsDir         string        // log directory, defaults per platform
	FilenamePrefix  string        // log file prefix, default "resolver"
	QueueCapacity   int           // hand-off queue capacity, default 64
	OfferTimeout    time.Duration // producer-side bounded wait, default 50ms
	PollTimeout     time.Duration // consumer idle timeout, default 5s
	TimestampFormat string        // record timestamp layout
	MaxEventRate    int           // max events/second, 0 disables limiting
	Output          io.Writer     // overrides the file sink when non-nil
	ErrorHandler    func(error)   // internal error hook, defaults to diag
}

// DefaultConfig returns the configuration used by the shared Default logger.
func DefaultConfig() Config {
	return Config{
		LogsDir:         defaultLogsDir(),
		FilenamePrefix:  defaultFilenamePrefix,
		QueueCapacity:   defaultQueueCapacity,
		OfferTimeout:    defaultOfferTimeout,
		PollTimeout:     defaultPollTimeout,
		TimestampFormat: defaultTimestampFormat,
	}
}

func (c *Config) Validate() error {
	if c.QueueCapacity < 0 {
		return fmt.Errorf("QueueCapacity cannot be negative")
	}
	if c.OfferTimeout < 0 {
		return fmt.Errorf("OfferTimeout cannot be negative")
	}
	if c.PollTimeout < 0 {
		return fmt.Errorf("PollTimeout cannot be negative")
	}
	if c.MaxEventRate < 0 {
		return fmt.Errorf("MaxEventRate cannot be negative")
	}
	return nil
}

// Logger is the dispatcher side of the pipeline: it accepts events from any
// number of goroutines and hands them to a single lazily started consumer
// that appends them to the log file and retires itself when idle.
//
// Log never blocks callers beyond the offer timeout, never returns an error
// and never panics; under backpressure events are dropped.
type Logger struct {
	queue *eventQueue

	mu           sync.Mutex // guards the check-and-start below, nothing else
	consumerLive bool

	logsDir         string
	filenamePrefix  string
	offerTimeout    time.Duration
	pollTimeout     time.Duration
	timestampFormat string
	output          io.Writer
	errorHandler    func(error)
	rateLimiter     *rate.Limiter

	droppedEvents  atomic.Uint64
	consumerStarts atomic.Uint64
}

// New creates a Logger. No file or directory is touched here; the sink is
// opened by the consumer on its first run, so a bad directory surfaces
// through the error handler rather than at construction.
func New(config Config) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.LogsDir == "" {
		config.LogsDir = defaultLogsDir()
	}
	if config.FilenamePrefix == "" {
		config.FilenamePrefix = defaultFilenamePrefix
	}
	if config.QueueCapacity == 0 {
		config.QueueCapacity = defaultQueueCapacity
	}
	if config.OfferTimeout == 0 {
		config.OfferTimeout = defaultOfferTimeout
	}
	if config.PollTimeout == 0 {
		config.PollTimeout = defaultPollTimeout
	}
	if config.TimestampFormat == "" {
		config.TimestampFormat = defaultTimestampFormat
	}

	l := &Logger{
		queue:           newEventQueue(config.QueueCapacity),
		logsDir:         config.LogsDir,
		filenamePrefix:  config.FilenamePrefix,
		offerTimeout:    config.OfferTimeout,
		pollTimeout:     config.PollTimeout,
		timestampFormat: config.TimestampFormat,
		output:          config.Output,
		errorHandler:    config.ErrorHandler,
	}

	if config.MaxEventRate > 0 {
		l.rateLimiter = rate.NewLimiter(rate.Limit(config.MaxEventRate), config.MaxEventRate)
	}

	return l, nil
}

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
)

// Default returns the process-wide shared Logger, created on first use with
// DefaultConfig. Embedding code that wants its own instance uses New.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		// DefaultConfig always validates.
		defaultLogger, _ = New(DefaultConfig())
	})
	return defaultLogger
}

// Log submits an event, fire and forget. The submission timestamp is
// captured here, so records keep submission order even when writing lags.
// If the queue stays full past the offer timeout the event is dropped.
func (l *Logger) Log(event any) {
	if event == nil {
		return
	}

	if l.rateLimiter != nil && !l.rateLimiter.Allow() {
		l.droppedEvents.Add(1)
		return
	}

	rec := timestampedEvent{when: time.Now(), event: event}
	if !l.queue.offer(rec, l.offerTimeout) {
		l.droppedEvents.Add(1)
	}

	l.ensureConsumer()
}

// ensureConsumer starts a consumer goroutine unless one is already live.
// The mutex covers only this check-and-start; the loop itself runs outside
// any lock, so many producers may race here and exactly one wins.
func (l *Logger) ensureConsumer() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.consumerLive {
		return
	}
	l.consumerLive = true
	l.consumerStarts.Add(1)
	go l.consume()
}

func (l *Logger) consumerAlive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consumerLive
}

// consume is the consumer loop: it owns the sink for the duration of one
// run, drains the queue record by record and retires itself after a full
// poll timeout with no new events. The deregistration runs unconditionally,
// so a failed sink open or a retirement both let a later Log start fresh.
func (l *Logger) consume() {
	runID := uuid.NewString()

	defer func() {
		l.mu.Lock()
		l.consumerLive = false
		l.mu.Unlock()
		diag.Debug().Str("run_id", runID).Msg("consumer retired")
	}()

	w, closeSink, err := l.openSink()
	if err != nil {
		l.handleError(fmt.Errorf("consumer run %s: %w", runID, err))
		return
	}
	defer closeSink()

	diag.Debug().Str("run_id", runID).Msg("consumer started")

	for {
		rec, ok := l.queue.poll(l.pollTimeout)
		if !ok {
			return
		}
		l.writeRecord(w, rec)
	}
}

// openSink opens the append-mode log file for one consumer run, creating the
// log directory if needed. A Config.Output override bypasses the filesystem.
func (l *Logger) openSink() (*bufio.Writer, func(), error) {
	if l.output != nil {
		w := bufio.NewWriter(l.output)
		return w, func() { _ = w.Flush() }, nil
	}

	if err := os.MkdirAll(l.logsDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(l.logsDir, logFileName(l.filenamePrefix, time.Now()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	w := bufio.NewWriter(file)
	return w, func() {
		_ = w.Flush()
		if err := file.Close(); err != nil {
			l.handleError(fmt.Errorf("failed to close log file: %w", err))
		}
	}, nil
}

// logFileName builds "<prefix>-yyyyMMdd-HHmmss-SSS.log" for one consumer run.
func logFileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%03d.log",
		prefix, now.Format("20060102-150405"), now.Nanosecond()/int(time.Millisecond))
}

// writeRecord formats and writes one record, flushing after it. Formatting
// and write failures are reported and swallowed; they never end the run.
func (l *Logger) writeRecord(w *bufio.Writer, rec timestampedEvent) {
	if _, err := w.WriteString(l.safeFormat(rec)); err != nil {
		l.handleError(fmt.Errorf("log write error: %w", err))
	}
	if err := w.Flush(); err != nil {
		l.handleError(fmt.Errorf("log flush error: %w", err))
	}
}

// safeFormat never panics: a panic inside a renderer is converted into
// best-effort diagnostic text written in place of the intended record.
func (l *Logger) safeFormat(rec timestampedEvent) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("%s - LOGGING FAILURE: %v\n%s\n\n",
				rec.when.Format(l.timestampFormat), r, debug.Stack())
		}
	}()
	return formatRecord(rec, l.timestampFormat)
}

func (l *Logger) handleError(err error) {
	if l.errorHandler != nil {
		l.errorHandler(err)
		return
	}
	diag.Error().Err(err).Msg("resolver log internal error")
}

// DroppedEvents reports how many submissions were discarded, either by a
// full queue outlasting the offer timeout or by the event rate limit.
func (l *Logger) DroppedEvents() uint64 {
	return l.droppedEvents.Load()
}

// ConsumerStarts reports how many consumer runs have been started over the
// Logger's lifetime.
func (l *Logger) ConsumerStarts() uint64 {
	return l.consumerStarts.Load()
}
