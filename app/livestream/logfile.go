package livestream

import (
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// logFile is the LOG_FILE writer. lumberjack rotates it by size and prunes
// backups; the daily loop adds a rotation at local midnight.
type logFile struct {
	*lumberjack.Logger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func openLogFile(cfg Config) *logFile {
	f := &logFile{
		Logger: &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxSize,
			MaxBackups: cfg.LogFileMaxBackups,
			MaxAge:     cfg.LogFileMaxAge,
			LocalTime:  true,
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if cfg.LogFileRotateDaily {
		go f.rotateDaily()
	} else {
		close(f.done)
	}
	return f
}

func (f *logFile) rotateDaily() {
	defer close(f.done)

	for {
		timer := time.NewTimer(untilMidnight(time.Now()))
		select {
		case <-f.stop:
			timer.Stop()
			return
		case <-timer.C:
			// A failed rotation keeps writing to the current file.
			_ = f.Rotate()
		}
	}
}

// Close stops the daily rotation and closes the current file.
func (f *logFile) Close() error {
	f.once.Do(func() { close(f.stop) })
	<-f.done
	return f.Logger.Close()
}

func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
}
