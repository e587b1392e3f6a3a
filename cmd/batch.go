package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	batchAll         bool
	batchForce       bool
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch [state-slug...]",
	Short: "Generate content for many states",
	Long:  "Runs the pipeline for the given states (or every registered state with --all). States that fail are logged and skipped; the command fails only when nothing succeeds.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !batchAll && len(args) == 0 {
			return eris.New("no states given; pass slugs or --all")
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		slugs := args
		if batchAll {
			slugs = slugs[:0]
			for _, s := range env.Registry.All() {
				slugs = append(slugs, s.Slug)
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		succeeded := make([]bool, len(slugs))
		for i, slug := range slugs {
			g.Go(func() error {
				req, err := requestFor(env, slug)
				if err != nil {
					zap.L().Error("skipping state", zap.String("state", slug), zap.Error(err))
					return nil
				}
				result, err := env.Engine.Generate(gctx, req, batchForce)
				if err != nil {
					zap.L().Error("generation failed",
						zap.String("state", slug), zap.Error(err))
					return nil
				}
				succeeded[i] = true
				zap.L().Info("state complete",
					zap.String("state", slug),
					zap.Bool("from_cache", result.FromCache))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		done := 0
		for _, ok := range succeeded {
			if ok {
				done++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("succeeded", done),
			zap.Int("failed", len(slugs)-done))

		if done == 0 {
			return eris.New("batch: every state failed")
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "generate every registered state")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "regenerate even when fresh cached copies exist")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "states processed in parallel")
	rootCmd.AddCommand(batchCmd)
}
