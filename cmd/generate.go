package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/counselpath/stategen/internal/model"
)

var generateForce bool

var generateCmd = &cobra.Command{
	Use:   "generate <state-slug>",
	Short: "Generate content for one state",
	Long:  "Runs the full pipeline for a single state and prints the content payload as JSON. Serves the cached copy when one is fresh unless --force is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := env.Registry.Request(args[0])
		if missing := req.MissingFields(); len(missing) > 0 {
			return eris.Errorf("unknown state %q", args[0])
		}

		result, err := env.Engine.Generate(ctx, req, generateForce)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "regenerate even when a fresh cached copy exists")
	rootCmd.AddCommand(generateCmd)
}

// requestFor resolves a slug into a generation request, for commands that
// accept multiple states.
func requestFor(env *engineEnv, slug string) (model.StateContentRequest, error) {
	req := env.Registry.Request(slug)
	if missing := req.MissingFields(); len(missing) > 0 {
		return model.StateContentRequest{}, eris.Errorf("unknown state %q", slug)
	}
	return req, nil
}
