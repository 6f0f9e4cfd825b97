package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"jobdigest/internal/config"
	"jobdigest/internal/httpapi"
	"jobdigest/internal/mailer"
	"jobdigest/internal/routine"
	"jobdigest/internal/scheduler"
	"jobdigest/internal/scrape"
	"jobdigest/internal/scrape/types"
	"jobdigest/internal/scrape/util"
	"jobdigest/internal/secrets"

	"github.com/gofrs/flock"
)

func main() {
	setPassword := flag.Bool("set-password", false, "read the SMTP password from stdin, store it in the OS keychain and exit")
	deletePass := flag.Bool("delete-password", false, "remove the stored SMTP password from the OS keychain and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	switch {
	case *setPassword:
		account, err := storePassword(cfg, os.Stdin)
		if err != nil {
			log.Fatalf("[secrets] store password: %v", err)
		}
		log.Printf("[secrets] stored SMTP password for %s", account)
		return
	case *deletePass:
		account, err := deletePassword(cfg)
		if err != nil {
			log.Fatalf("[secrets] delete password: %v", err)
		}
		log.Printf("[secrets] removed SMTP password for %s", account)
		return
	}

	if err := secrets.ResolveMailPassword(&cfg); err != nil {
		log.Printf("[secrets] keychain fallback: %v", err)
	}

	cfg, warnings, err := config.Validate(cfg)
	for _, w := range warnings {
		log.Printf("[config] warning: %s", w)
	}
	if err != nil {
		log.Fatal(err)
	}

	trigger, err := scheduler.ParseTrigger(cfg.Schedule.Trigger)
	if err != nil {
		log.Fatal(err)
	}

	// One scheduler per data dir, or the digest goes out twice.
	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Fatal(err)
	}
	lock := flock.New(filepath.Join(cfg.App.DataDir, "jobdigest.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock %s: %v", lock.Path(), err)
	}
	if !locked {
		log.Fatalf("another instance holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := &atomic.Value{}
	status.Store(types.RunStatus{})

	runner := &routine.Runner{
		Fetcher: scrape.New(scrape.ConfigFrom(cfg), util.NewHostLimiter(0.2, 1)),
		Mailer:  mailer.New(mailer.ConfigFrom(cfg)),
		Status:  status,
	}

	if addr := cfg.App.StatusAddr; addr != "" {
		h := httpapi.NewHandler(httpapi.Deps{Status: status, Trigger: trigger.String(), Config: cfg})
		go func() {
			if err := httpapi.Serve(ctx, addr, h); err != nil {
				log.Printf("[status] server error: %v", err)
			}
		}()
	}

	log.Printf("Scheduler started (mail=%s@%s:%d)", cfg.Mail.User, cfg.Mail.Host, cfg.Mail.Port)

	interval := time.Duration(cfg.Schedule.CheckSeconds) * time.Second
	scheduler.NewDriver("digest", trigger, interval, runner.RunOnce).Run(ctx)

	log.Printf("Scheduler stopped")
}
