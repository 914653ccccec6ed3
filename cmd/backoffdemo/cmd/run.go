package cmd

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/backoff"
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	failureRate float64
	interval    time.Duration
	duration    time.Duration
	childName   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the supervisor and feed the worker until interrupted",
	RunE:  run,
}

func init() {
	runCmd.Flags().Float64Var(&failureRate, "failure-rate", 0.3, "probability of a job failing the worker")
	runCmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "time between jobs")
	runCmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	runCmd.Flags().StringVar(&childName, "child-name", "flaky-worker", "name the worker is registered under")
	rootCmd.AddCommand(runCmd)
}

type job struct {
	id int
}

type jobDone struct {
	id int
}

// flakyWorker fails a job with the given probability
func flakyWorker(a *actor.Actor) {
	rate := a.Args()[0].(float64)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	a.Receive(func(message interface{}) (loop bool) {
		j, ok := message.(job)
		if !ok {
			return true
		}
		if rnd.Float64() < rate {
			panic(errors.New("job failed"))
		}
		a.Send(a.Supervisor(), jobDone{id: j.id})
		return true
	})
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.WithComponent("demo")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
	}

	parent, done := actor.NewParentActor()
	defer done()
	parent.TrapExit(true)

	opts, err := cfg.BackoffOptions(flakyWorker, childName)
	if err != nil {
		return err
	}
	ref, err := backoff.Start(opts.SetChildArgs(failureRate).SetParent(parent.Self()))
	if err != nil {
		return err
	}
	defer ref.Shutdown()
	parent.Monitor(ref.PID())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for id := 0; ; id++ {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping")
			return nil
		case <-ticker.C:
		}

		ref.Send(job{id: id})
		if !drain(parent, &logger, ref) {
			return errors.New("supervisor terminated")
		}
	}
}

// drain handles what the supervisor relayed so far, it returns false if the supervisor is gone
func drain(parent *actor.Actor, logger *zerolog.Logger, ref *backoff.Ref) (alive bool) {
	alive = true
	parent.ReceiveWithTimeout(time.Millisecond, func(message interface{}) (loop bool) {
		switch msg := message.(type) {
		case jobDone:
			count, err := ref.RestartCount()
			if err != nil {
				return true
			}
			logger.Info().Int("job", msg.id).Int("restart_count", count).Msg("job done")
		case sysmsg.Exit:
			logger.Error().Str("reason", msg.Reason.Type).Msg("supervisor terminated")
			alive = false
			return false
		case sysmsg.Timeout:
			return false
		}
		return true
	})
	return
}
