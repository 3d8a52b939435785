package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"clementus360/simpliday/session"
	"clementus360/simpliday/types"

	"github.com/spf13/cobra"
)

var (
	chatUser string
	chatLang string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Record entries through a terminal conversation",
	Long:  "Type what you did or ate. Staged records are saved with /confirm or dropped with /cancel; /quit leaves.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatUser == "" {
			return fmt.Errorf("--user is required")
		}
		ctx := cmd.Context()

		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		loc := cfg.Location()
		mgr := session.NewManager(svc.extractor, svc.store, cfg.SessionTTL, loc, defaultLanguage(cfg))
		var lang types.Language
		if chatLang != "" {
			lang = types.ParseLanguage(chatLang)
		}
		sess, err := mgr.Create(ctx, chatUser, lang, loc)
		if err != nil {
			return err
		}
		defer mgr.Close(sess.ID, chatUser)

		return runChat(cmd, sess)
	},
}

// runChat reads one utterance or command per line until /quit or EOF.
func runChat(cmd *cobra.Command, sess *session.Session) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "/quit":
			return nil
		case "/confirm":
			committed, err := sess.Confirm(cmd.Context())
			printCommitted(out, committed)
			if err != nil {
				printTurnError(out, err)
			}
		case "/cancel":
			if err := sess.Cancel(); err != nil {
				printTurnError(out, err)
			} else {
				fmt.Fprintln(out, "Discarded staged records.")
			}
		default:
			res, err := sess.Send(cmd.Context(), line)
			if err != nil {
				printTurnError(out, err)
				break
			}
			if res.Reply != "" {
				fmt.Fprintln(out, res.Reply)
			}
			printCommitted(out, res.Committed)
			printDrafts(out, res.Drafts)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func printDrafts(w io.Writer, drafts []types.EntryDraft) {
	if len(drafts) == 0 {
		return
	}
	fmt.Fprintln(w, "Staged (/confirm to save, /cancel to discard):")
	for i, d := range drafts {
		fmt.Fprintf(w, "  %d. [%s] %s %s\n", i+1, d.Type, d.Content, formatFields(d.Fields))
	}
}

func printCommitted(w io.Writer, entries []types.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "Saved [%s] %s\n", e.Type, e.Content)
	}
}

func printTurnError(w io.Writer, err error) {
	var ce *session.CommitError
	if errors.As(err, &ce) {
		fmt.Fprintf(w, "Saved %d records before a failure: %v. Run /confirm to retry the rest.\n", len(ce.Committed), ce.Err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func formatFields(f types.Fields) string {
	if len(f) == 0 {
		return ""
	}
	parts := make([]string, 0, len(f))
	for _, k := range sortedKeys(f) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func sortedKeys(f types.Fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatUser, "user", "", "User ID the records belong to")
	chatCmd.Flags().StringVar(&chatLang, "lang", "", "en or zh (default: profile language)")
}
