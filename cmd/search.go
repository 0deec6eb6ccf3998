package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/highlight"
)

var searchChapters []string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Highlight a query over rendered chapters and score co-occurrence",
	Long: `Renders the selected chapters, overlays accent-insensitive highlight
markers for every normalized query term, and reports per-term match
counts plus the co-occurrence quality (ALTO / PEQUENO / NENHUM).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		chapters, err := st.LoadChapters(cmd.Context(), searchChapters)
		if err != nil {
			return fmt.Errorf("loading chapters: %w", err)
		}
		if len(chapters) == 0 {
			return fmt.Errorf("no chapters in store; run `fiscal import` first")
		}

		query := strings.Join(args, " ")
		session := highlight.NewSession(log)
		defer session.Close()
		session.SetQuery(query)
		if err := session.SetContent(newRenderer(cfg).RenderDocument(chapters, log)); err != nil {
			return fmt.Errorf("highlighting: %w", err)
		}

		terms := session.Terms()
		if len(terms) == 0 {
			fmt.Println("No searchable terms in query.")
			return nil
		}

		counts := session.MatchCounts()
		fmt.Printf("Query: %s\n", query)
		for _, term := range terms {
			fmt.Printf("  %-20s %d matches\n", term, counts[term])
		}

		q := session.Quality()
		switch q.Level {
		case highlight.QualityHigh:
			fmt.Printf("Quality: ALTO — all terms share %d %s(s)\n", q.Count, q.Scope)
		case highlight.QualityLow:
			fmt.Println("Quality: PEQUENO — terms meet only at chapter scope")
		default:
			fmt.Println("Quality: NENHUM")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchChapters, "chapters", nil, "chapter numbers to search (default: all)")
	rootCmd.AddCommand(searchCmd)
}
