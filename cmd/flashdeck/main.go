package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flashdeck/internal/app"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flashdeck:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := app.NewViper()
	var configPath string

	root := &cobra.Command{
		Use:   "flashdeck",
		Short: "Study flashcards with Markdown and math in the terminal",
		Long: `flashdeck shows a deck of term/definition cards one at a time.
Definitions are Markdown with inline $...$ and display $$...$$ math.
Without --deck the builtin sample deck is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flashdeck/config.yaml)")
	flags.String("deck", "", "deck file (YAML or JSON); builtin deck when empty")
	flags.String("log", "", "write JSON event log to this path")
	flags.Bool("debug", false, "verbose logging and layout info")
	flags.Bool("ascii", false, "ASCII-only borders and glyphs")
	flags.Bool("shuffle", false, "shuffle the deck on start")
	flags.Uint64("seed", 0, "shuffle seed; 0 picks a random one")
	flags.String("theme", "", "ui theme: midnight, paper or retro")
	flags.String("motion", "", "flip animation: full, reduced or off")
	flags.Int("wrap", 0, "maximum definition width; 0 fits the card")
	flags.Int("prerender", 1, "cards to render ahead on each side")

	bind := map[string]string{
		"deck":         "deck",
		"log":          "log",
		"debug":        "debug",
		"ascii":        "ascii",
		"shuffle":      "shuffle",
		"seed":         "seed",
		"ui.theme":     "theme",
		"ui.motion":    "motion",
		"ui.wrap":      "wrap",
		"ui.prerender": "prerender",
	}
	for key, flag := range bind {
		// BindPFlag only fails on a nil flag.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newRenderCmd(v, &configPath))
	root.AddCommand(newListCmd())
	root.AddCommand(newCheckCmd(v, &configPath))
	return root
}
