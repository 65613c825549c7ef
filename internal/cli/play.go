package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/domain"
)

// NewPlayCmd runs one quiz session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, b, questions, err := openServices(ctx, *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			service := app.NewQuizService(b.sessions, questions, b.results)
			return runPlay(ctx, service.NewSession(), name, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "learner name (asked for when empty)")
	return cmd
}

// runPlay drives a session from line-based input until the learner quits or input ends.
func runPlay(ctx context.Context, session *app.Session, name string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	if strings.TrimSpace(name) != "" {
		if _, err := session.Start(ctx, name); err != nil && !errors.Is(err, domain.ErrNameTooShort) {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := session.View()

		switch view.State {
		case app.StateNaming:
			fmt.Fprint(out, "Your name: ")
			line, ok := readLine(reader)
			if !ok {
				return nil
			}
			if _, err := session.Start(ctx, line); err != nil {
				if errors.Is(err, domain.ErrNameTooShort) {
					fmt.Fprintf(out, "Name must have at least %d characters.\n", app.MinNameLength)
					continue
				}
				return err
			}

		case app.StateAwaitingAnswer:
			printQuestion(out, view)
			letter, ok := readLine(reader)
			if !ok {
				return nil
			}
			fb, err := app.SubmitTo(ctx, session, domain.AnswerSubmission{Letter: letter})
			if errors.Is(err, domain.ErrInvalidChoice) {
				fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c.\n", 'A'+len(view.Question.Choices)-1)
				continue
			}
			if err != nil {
				return err
			}
			printFeedback(out, fb)

		case app.StateAwaitingAck:
			fmt.Fprint(out, "Press Enter to continue...")
			if _, ok := readLine(reader); !ok {
				return nil
			}
			fmt.Fprintln(out)
			if _, err := session.Acknowledge(ctx); err != nil {
				fmt.Fprintf(out, "Could not save the attempt: %v\n", err)
			}

		case app.StateFinished:
			printSummary(out, view)
			if view.Saved {
				fmt.Fprint(out, "[r]estart, [n]ew learner or [q]uit: ")
			} else {
				fmt.Fprint(out, "[s]ave again, [r]estart, [n]ew learner or [q]uit: ")
			}
			line, ok := readLine(reader)
			if !ok {
				return nil
			}
			switch strings.ToLower(line) {
			case "s":
				if err := session.Finalize(ctx); err != nil {
					fmt.Fprintf(out, "Could not save the attempt: %v\n", err)
				}
			case "r":
				if _, err := session.Restart(ctx); err != nil {
					fmt.Fprintf(out, "Could not save the attempt: %v\n", err)
				}
			case "n":
				session.SwitchLearner()
			case "q":
				return nil
			}
		}
	}
}

func printQuestion(out io.Writer, view app.View) {
	q := view.Question
	t := view.Tally
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d [%s]  points %d  streak %d  correct %.2f%%\n", q.Number, t.Total, q.Level, t.FinalPoints, t.Streak, t.PercentLive)
	fmt.Fprintf(out, "%s\n", q.Prompt)
	if q.CodeSample != "" {
		fmt.Fprintln(out)
		for _, line := range strings.Split(q.CodeSample, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	fmt.Fprintln(out)
	for _, c := range q.Choices {
		fmt.Fprintf(out, "%s. %s\n", c.Letter, c.Text)
	}
	fmt.Fprint(out, "> ")
}

func printFeedback(out io.Writer, fb app.Feedback) {
	fmt.Fprintln(out)
	if fb.Correct {
		if fb.Bonus > 0 {
			fmt.Fprintf(out, "Correct! Streak bonus +%d\n", fb.Bonus)
		} else {
			fmt.Fprintln(out, "Correct!")
		}
		fmt.Fprintln(out, fb.Rationale)
		return
	}
	fmt.Fprintf(out, "Wrong. Correct answer was %s\n", fb.Answer)
	fmt.Fprintf(out, "Your choice: %s\n", fb.Rationale)
	fmt.Fprintf(out, "Answer: %s\n", fb.AnswerRationale)
}

func printSummary(out io.Writer, view app.View) {
	t := view.Tally
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Quiz finished, %s!\n", view.StudentName)
	fmt.Fprintf(out, "Correct answers: %d/%d (%.2f%%)\n", t.BaseCorrect, t.Total, t.PercentLive)
	fmt.Fprintf(out, "Final points: %d\n", t.FinalPoints)
	fmt.Fprintf(out, "Best streak: %d\n", t.MaxStreak)
	if !view.Saved {
		fmt.Fprintln(out, "This attempt is not saved yet.")
	}
}

func readLine(reader *bufio.Reader) (string, bool) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
