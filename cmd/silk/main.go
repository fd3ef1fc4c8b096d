package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apples/silk/internal/job"
	"github.com/apples/silk/internal/logging"
	"github.com/apples/silk/internal/sched"
	"github.com/apples/silk/internal/snapshot"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "silk",
		Short: "Cooperative single-threaded task scheduler",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to YAML config")

	root.AddCommand(newDemoCmd(&configPath))
	root.AddCommand(newResumeCmd(&configPath))
	return root
}

// newDemoCmd runs a small demo workload, driven by the tick clock until the
// scheduler goes idle.
func newDemoCmd(configPath *string) *cobra.Command {
	var counts, width int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a demo workload until the scheduler is idle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sched.Load(*configPath)
			logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

			s := sched.New(sched.WithLogger(logger), sched.WithConfig(cfg))
			s.Listen(func(ev sched.Event) {
				if ev.Kind == sched.EventFinish {
					fmt.Printf("%s  %-8s entry=%s result=%s\n",
						ev.Time.Format("15:04:05.000"), ev.Kind, ev.Entry, ev.Result)
				}
			})

			count := s.RunTask(job.NewCount(counts))
			fan := s.RunTask(job.NewFanOut(width, counts))

			drive(s, cfg)

			fmt.Printf("count: %s, fan-out: %s\n", count.Get(), fan.Get())
			return nil
		},
	}
	cmd.Flags().IntVar(&counts, "steps", 9, "Yields per counting task")
	cmd.Flags().IntVar(&width, "width", 3, "Fan-out width")
	return cmd
}

// newResumeCmd restores a suspended task from a snapshot file and runs it to
// completion. Count snapshots reference no external futures, so a file is
// enough to rebuild them.
func newResumeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <snapshot.yml>",
		Short: "Restore a task from a snapshot and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sched.Load(*configPath)
			logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			snap, err := snapshot.Unmarshal(data)
			if err != nil {
				return err
			}

			registry := snapshot.NewRegistry()
			job.Register(registry)

			task, err := registry.Restore(snap, snapshot.Futures{})
			if err != nil {
				return err
			}

			s := sched.New(sched.WithLogger(logger), sched.WithConfig(cfg))
			result := s.RunTask(task)
			drive(s, cfg)

			fmt.Printf("restored %s finished: %s\n", snap.TaskType, result.Get())
			return nil
		},
	}
	return cmd
}

// drive advances the scheduler one step per clock tick until it goes idle,
// the way a host's per-frame loop would.
func drive(s *sched.Scheduler, cfg sched.Config) {
	clock := sched.NewTickClock(256)
	clock.Start(time.Duration(cfg.TickMS) * time.Millisecond)
	defer clock.Stop()

	for range clock.Ch {
		if !s.ExecuteOne() {
			return
		}
	}
}
