package cli

import (
	"fmt"
	"io"
	"time"

	"clementus360/simpliday/analytics"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/spf13/cobra"
)

var (
	summaryUser  string
	summaryRange string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print aggregates and the calorie balance for a range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryUser == "" {
			return fmt.Errorf("--user is required")
		}
		rng, err := analytics.ParseRange(summaryRange)
		if err != nil {
			return err
		}

		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		loc := cfg.Location()
		now := time.Now().In(loc)

		q := store.ListQuery{Limit: 200}
		if from, bounded := analytics.RangeStart(rng, now, loc); bounded {
			q.From = from
		}
		entries, err := st.ListEntries(ctx, summaryUser, q)
		if err != nil {
			return err
		}
		if rng == analytics.RangeToday {
			entries = analytics.OnDay(entries, now, loc)
		}

		profile, err := st.GetProfile(ctx, summaryUser)
		if err != nil {
			return err
		}
		writeSummary(cmd.OutOrStdout(), rng, analytics.Summarize(entries), profile)
		return nil
	},
}

func writeSummary(w io.Writer, rng analytics.Range, s analytics.Summary, profile *types.UserProfile) {
	decimals := 1
	if rng == analytics.RangeToday {
		decimals = 0
	}

	fmt.Fprintf(w, "Range: %s\n", rng)
	fmt.Fprintf(w, "Entries: %d (fitness %d | diet %d | mood %d | energy %d | other %d)\n",
		s.Total, s.Counts[types.EntryFitness], s.Counts[types.EntryDiet],
		s.Counts[types.EntryMood], s.Counts[types.EntryEnergy], s.Counts[types.EntryOther])
	fmt.Fprintf(w, "Exercise: %.0f min | %.0f kcal burned\n", s.Fitness.Duration, s.Fitness.CaloriesBurned)
	fmt.Fprintf(w, "Intake: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", s.Diet.Calories, s.Diet.Protein, s.Diet.Carbs, s.Diet.Fat)
	fmt.Fprintf(w, "Protein per meal: %s\n", s.Diet.ProteinPerMeal.Display(0))
	fmt.Fprintf(w, "Mood: %s | Energy: %s\n", s.Mood.Display(decimals), s.Energy.Display(decimals))

	if rng != analytics.RangeToday {
		return
	}
	balance, ok := analytics.Balance(s, profile)
	if !ok {
		fmt.Fprintln(w, "Balance: complete your profile to see it")
		return
	}
	fmt.Fprintf(w, "Balance: %+.0f kcal vs TDEE %d (%s, %s for goal %s)\n",
		balance.Net, balance.TDEE, balance.Status, balance.Assessment, balance.Goal)
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryUser, "user", "", "User ID")
	summaryCmd.Flags().StringVar(&summaryRange, "range", "today", "today|week|month|all")
}
