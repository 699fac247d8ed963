package usecase

import (
	"fmt"
	"os"
	"time"

	"ndr-srv/internal/alert"
	"ndr-srv/internal/engine"
	"ndr-srv/internal/event"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/scheduler"
	"ndr-srv/internal/scheduler/repository"
	pkgLog "ndr-srv/pkg/log"
)

const (
	defaultInterval = 15 * time.Minute
	defaultTimeout  = 10 * time.Minute
)

type Options struct {
	Interval time.Duration
	// Timeout bounds one scan. A run still marked running after it is reaped as failed.
	Timeout   time.Duration
	Instance  string
	Publisher event.Publisher
	Alert     alert.UseCase
	Metrics   *metrics.Metrics
}

type usecase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	engine   engine.UseCase
	interval time.Duration
	timeout  time.Duration
	instance string
	pub      event.Publisher
	alert    alert.UseCase
	metrics  *metrics.Metrics
	clock    func() time.Time
}

func New(l pkgLog.Logger, repo repository.Repository, eng engine.UseCase, opts Options) scheduler.UseCase {
	uc := &usecase{
		l:        l,
		repo:     repo,
		engine:   eng,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		instance: opts.Instance,
		pub:      opts.Publisher,
		alert:    opts.Alert,
		metrics:  opts.Metrics,
		clock:    time.Now,
	}
	if uc.interval <= 0 {
		uc.interval = defaultInterval
	}
	if uc.timeout <= 0 {
		uc.timeout = defaultTimeout
	}
	if uc.instance == "" {
		uc.instance = defaultInstance()
	}
	if uc.pub == nil {
		uc.pub = event.Nop()
	}
	return uc
}

func defaultInstance() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
