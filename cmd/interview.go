package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kfreiman/mockinterview/internal/app"
	"github.com/kfreiman/mockinterview/internal/driver"
	"github.com/kfreiman/mockinterview/internal/evaluation"
)

// errInputClosed is returned when stdin ends before the interview does
var errInputClosed = errors.New("input closed before the interview finished")

var interviewFlags struct {
	resume       string
	jd           string
	interviewers int
	feedback     string
	maxFollowUps int
}

// interviewCmd runs one interview in the terminal
var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a mock interview in the terminal",
	Long: `Run a mock interview in the terminal.

Each question is printed as "[interviewer] question". Type the answer and
finish it with an empty line. When every interviewer is done the transcript
and the evaluation are printed and the transcript is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("interviewers") {
			cfg = cfg.WithMaxInterviewers(interviewFlags.interviewers)
		}
		if cmd.Flags().Changed("max-follow-ups") {
			cfg = cfg.WithMaxFollowUps(interviewFlags.maxFollowUps)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := createLogger(cfg)

		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil {
				logger.Debug("error closing application", "error", closeErr)
			}
		}()
		out := cmd.OutOrStdout()

		resume, err := a.Ingestor.Ingest(ctx, interviewFlags.resume, "resume")
		if err != nil {
			return fmt.Errorf("failed to ingest resume: %w", err)
		}
		jd, err := a.Ingestor.Ingest(ctx, interviewFlags.jd, "jd")
		if err != nil {
			return fmt.Errorf("failed to ingest job description: %w", err)
		}

		fmt.Fprintln(out, "Preparing interviewers and questions...")
		started, err := a.Start(ctx, app.StartRequest{
			ResumeURI: resume.URI,
			JDURI:     jd.URI,
			Feedback:  interviewFlags.feedback,
		})
		if err != nil {
			return fmt.Errorf("failed to start interview: %w", err)
		}
		for _, p := range started.Personas {
			fmt.Fprintf(out, "- %s, %s\n", p.Name, p.PositionExperience)
		}
		fmt.Fprintln(out)

		return runInterview(ctx, a, started.SessionID, started.First, cmd.InOrStdin(), out)
	},
}

func init() {
	f := interviewCmd.Flags()
	f.StringVar(&interviewFlags.resume, "resume", "", "resume file, URL or text (required)")
	f.StringVar(&interviewFlags.jd, "jd", "", "job description file, URL or text (required)")
	f.IntVar(&interviewFlags.interviewers, "interviewers", 2, "number of interviewers (1-4), overrides MAX_INTERVIEWERS")
	f.StringVar(&interviewFlags.feedback, "feedback", "", "guidance for the interviewer panel")
	f.IntVar(&interviewFlags.maxFollowUps, "max-follow-ups", 10, "follow-up budget, overrides MAX_FOLLOW_UPS")
	_ = interviewCmd.MarkFlagRequired("resume")
	_ = interviewCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(interviewCmd)
}

// runInterview asks questions until the session completes, then prints the
// transcript and the evaluation
func runInterview(ctx context.Context, a *app.App, sessionID string, next *driver.CurrentQuestion, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for next != nil {
		fmt.Fprintf(out, "[%s] %s\n> ", next.InterviewerName, next.Question)
		answer, err := readAnswer(scanner)
		if err != nil {
			return err
		}
		res, err := a.Sessions.SubmitAnswer(ctx, sessionID, next.InterviewerIndex, next.QuestionIndex, answer)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		next = res.Next
	}

	entries, err := a.Sessions.Transcript(sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, evaluation.Markdown(entries))

	fmt.Fprintln(out, "Evaluating the interview...")
	report, err := a.Evaluate(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n#### Evaluation\n\n%s\n", report.Evaluation)
	if report.URI != "" {
		fmt.Fprintf(out, "\nTranscript stored as %s\n", report.URI)
	}
	return nil
}

// readAnswer reads lines until an empty line or the end of input
func readAnswer(scanner *bufio.Scanner) (string, error) {
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errInputClosed
	}
	return strings.Join(lines, "\n"), nil
}
