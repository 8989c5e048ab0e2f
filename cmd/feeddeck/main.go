package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	feeddeck "github.com/feeddeck/feeddeck"
	"github.com/feeddeck/feeddeck/internal/output"
	"github.com/feeddeck/feeddeck/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath   string
	cfg          *storage.Config
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "feeddeck",
		Short: "Project-organized RSS/Atom aggregator with read tracking and webhook forwarding",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "human", "output format: json, text, human")

	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(feedCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(initConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		configPath = "./config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = storage.DefaultConfig()
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg = storage.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// newEngine builds an engine from the loaded config. Callers own Close.
func newEngine() (*feeddeck.Engine, error) {
	return feeddeck.NewEngine(feeddeck.EngineConfig{
		Backend:     cfg.Storage.Backend,
		DataDir:     cfg.Storage.Dir,
		DBPath:      cfg.Storage.DBPath,
		HTTPTimeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		UserAgent:   cfg.Fetch.UserAgent,
		MaxItems:    cfg.Fetch.MaxItems,
	})
}

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects (named groups of feed URLs)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all projects and their feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			names, err := engine.ProjectNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
				urls, err := engine.ProjectFeeds(name)
				if err != nil {
					continue
				}
				for _, url := range urls {
					fmt.Printf("  %s\n", url)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.CreateProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Created project %q\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project and its feed list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.DeleteProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted project %q\n", args[0])
			return nil
		},
	})

	return cmd
}

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Manage feed URLs within a project",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <project> <url>",
		Short: "Add a feed URL to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.AddFeed(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Added %s to %q\n", args[1], args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <project> <url>",
		Short: "Remove a feed URL from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.RemoveFeed(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed %s from %q\n", args[1], args[0])
			return nil
		},
	})

	return cmd
}

func refreshCmd() *cobra.Command {
	var filter string
	var items int

	cmd := &cobra.Command{
		Use:   "refresh [project]",
		Short: "Fetch a project's feeds and report new articles (all projects when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			formatter := output.NewFormatter(output.Format(outputFormat))

			var projects []string
			if len(args) == 1 {
				projects = args
			} else {
				projects, err = engine.ProjectNames()
				if err != nil {
					return err
				}
			}
			if len(projects) == 0 {
				formatter.Warning("no projects configured")
				return nil
			}

			for _, project := range projects {
				result, err := refreshProject(cmd.Context(), engine, project, filter, items)
				if err != nil {
					formatter.Warning("refresh %q: %v", project, err)
					continue
				}
				if err := formatter.OutputRefreshResult(result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "case-insensitive title filter")
	cmd.Flags().IntVarP(&items, "items", "n", 0, "articles per feed (0 = config default)")
	return cmd
}

func logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "List articles that have been marked read",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			entries, err := engine.ReadLog()
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(entries))
			for id := range entries {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool {
				a, b := entries[ids[i]], entries[ids[j]]
				if a.ReadAt != b.ReadAt {
					return a.ReadAt < b.ReadAt
				}
				return ids[i] < ids[j]
			})

			articles := make([]feeddeck.Article, 0, len(ids))
			for _, id := range ids {
				e := entries[id]
				articles = append(articles, feeddeck.Article{
					ID:      id,
					FeedURL: e.FeedURL,
					Title:   e.Title,
					Link:    e.Link,
					Read:    true,
				})
			}

			formatter := output.NewFormatter(output.Format(outputFormat))
			return formatter.OutputArticleList(articles)
		},
	}
}

func refreshProject(ctx context.Context, engine *feeddeck.Engine, project, filter string, items int) (*feeddeck.RefreshResult, error) {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	refreshCtx, cancel := context.WithTimeout(ctx, timeout*10)
	defer cancel()
	return engine.RefreshProject(refreshCtx, project, filter, items)
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config already exists at %s", configPath)
			}
			data, err := yaml.Marshal(storage.DefaultConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote default config to %s\n", configPath)
			return nil
		},
	}
}
