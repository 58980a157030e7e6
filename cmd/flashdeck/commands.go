package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"flashdeck/internal/app"
	"flashdeck/internal/deck"
	"flashdeck/internal/ui"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRenderCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var (
		card  int
		width int
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print rendered cards without starting the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(v, *configPath)
			if err != nil {
				return err
			}
			cfg.UI.Prerender = 0
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			total := len(a.Deck().Cards)
			indices := make([]int, 0, total)
			if card >= 0 {
				indices = append(indices, card)
			} else {
				for i := 0; i < total; i++ {
					indices = append(indices, i)
				}
			}

			theme := ui.ThemeForVariant(cfg.UI.Theme)
			p := ui.NewPainter(theme, width, cfg.ASCIIOnly)
			out := cmd.OutOrStdout()
			for n, i := range indices {
				c, doc, err := a.RenderCard(i)
				if err != nil {
					return err
				}
				if n > 0 {
					fmt.Fprintln(out)
				}
				title := fmt.Sprintf("[%d/%d] %s", i+1, total, c.Term)
				if c.Category != "" {
					title += " (" + c.Category + ")"
				}
				writeStyled(out, plain, theme.PanelTitle.Render(title))
				if c.Image != "" {
					writeStyled(out, plain, theme.Muted.Render("[image: "+c.Image+"]"))
				}
				writeStyled(out, plain, p.Paint(doc))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&card, "card", -1, "card index (0-based); all cards when negative")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	cmd.Flags().BoolVar(&plain, "plain", false, "strip colors and styles")
	return cmd
}

func writeStyled(w io.Writer, plain bool, s string) {
	if plain {
		fmt.Fprintln(w, ansi.Strip(s))
		return
	}
	lipgloss.Fprintln(w, s)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the decks in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			decks, err := deck.NewLoader().LoadDecks(cmd.Context(), dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(decks) == 0 {
				fmt.Fprintf(out, "no decks in %s\n", dir)
				return nil
			}
			rows := make([][]string, 0, len(decks))
			for _, d := range decks {
				rows = append(rows, []string{d.DeckID, d.Name, strconv.Itoa(len(d.Cards)), filepath.Base(d.Path)})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("DECK", "NAME", "CARDS", "FILE").
				Rows(rows...)
			lipgloss.Fprintln(out, t.String())
			return nil
		},
	}
}

func newCheckCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate deck files and report math that cannot be typeset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := app.LoadConfig(v, *configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				cfg := base
				cfg.DeckPath = path
				cfg.Shuffle = false
				cfg.UI.Prerender = 0
				a, err := app.New(cfg)
				if err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				bad := a.Fallbacks()
				ids := make([]int, 0, len(bad))
				for id := range bad {
					ids = append(ids, id)
				}
				sort.Ints(ids)
				for _, id := range ids {
					for _, e := range bad[id] {
						fmt.Fprintf(out, "WARN %s: card %d: %v\n", path, id, e)
					}
				}
				if strict && len(bad) > 0 {
					failed++
				} else {
					fmt.Fprintf(out, "ok   %s (%d cards)\n", path, len(a.Deck().Cards))
				}
				a.Close()
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d deck files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat math fallbacks as failures")
	return cmd
}
