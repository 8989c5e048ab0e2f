package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feeddeck/feeddeck/internal/output"
	"github.com/spf13/cobra"
)

func daemonCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Refresh all projects in a loop with configurable interval",
		Long: `Continuously refresh every project's feeds on a timer, advancing
watermarks so the dashboard's NEW badges stay accurate without manual
refreshes. Handles SIGINT/SIGTERM for graceful shutdown (finishes the
current cycle).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			formatter := output.NewFormatter(output.Format(outputFormat))

			log.Printf("feeddeck daemon: starting with interval %s", interval)

			cycle := 1
			for {
				start := time.Now()
				log.Printf("feeddeck daemon: cycle %d starting", cycle)

				projects, err := engine.ProjectNames()
				if err != nil {
					log.Printf("feeddeck daemon: cycle %d error: %v", cycle, err)
				}
				for _, project := range projects {
					result, err := refreshProject(ctx, engine, project, "", 0)
					if err != nil {
						formatter.Warning("refresh %q: %v", project, err)
						continue
					}
					if result.NewArticles > 0 {
						log.Printf("feeddeck daemon: %q has %d new articles", project, result.NewArticles)
					}
				}

				log.Printf("feeddeck daemon: cycle %d completed in %s", cycle, time.Since(start).Round(time.Millisecond))
				cycle++

				// Wait for the next tick or a shutdown signal.
				timer := time.NewTimer(interval)
				select {
				case <-sig:
					timer.Stop()
					log.Println("feeddeck daemon: received shutdown signal, exiting")
					return nil
				case <-timer.C:
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 5*time.Minute, "duration between refresh cycles (e.g. 5m, 30s, 1h)")
	return cmd
}
