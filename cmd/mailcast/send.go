package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailcast/internal/handlers"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/mailer"
	"github.com/dmitrymomot/mailcast/pkg/sse"
)

const progressPath = "/api/send-email-progress"

var (
	errRunFailed    = errors.New("run failed")
	errRunCancelled = errors.New("run cancelled")
	errStreamEnded  = errors.New("stream ended before the run finished")
)

func newSendCmd() *cobra.Command {
	var (
		server string
		extra  []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "send <draft.md>",
		Short: "Send a markdown draft through a running server and follow its progress",
		Long: "The draft starts with YAML frontmatter (subject, fromName, fromEmail,\n" +
			"recipients, recipientsFile) followed by the markdown body.\n" +
			"Interrupting the command closes the stream, which stops the run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildSendRequest(args[0], extra)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("draft is incomplete: %w", err)
			}

			if dryRun {
				_, err := io.WriteString(cmd.OutOrStdout(), req.HTMLContent)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return streamSend(ctx, http.DefaultClient, server, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("MAILCAST_URL", "http://localhost:8080"), "server base URL (env MAILCAST_URL)")
	cmd.Flags().StringSliceVar(&extra, "to", nil, "additional recipients")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rendered HTML instead of sending")
	return cmd
}

// buildSendRequest renders the draft and collects its recipients: the
// frontmatter list, then the recipients file (relative to the draft), then extra.
func buildSendRequest(path string, extra []string) (*handlers.SendRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	draft, err := mailer.ParseDraft(content)
	if err != nil {
		return nil, err
	}

	recipients := append([]string{}, draft.Recipients...)
	if draft.RecipientsFile != "" {
		file := draft.RecipientsFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		more, err := readRecipients(file)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, more...)
	}
	recipients = append(recipients, extra...)

	html, err := mailer.NewComposer().Compose(draft)
	if err != nil {
		return nil, err
	}

	return &handlers.SendRequest{
		To:          recipientlist.Normalize(recipients),
		Subject:     draft.Subject,
		FromName:    draft.FromName,
		FromEmail:   draft.FromEmail,
		HTMLContent: html,
	}, nil
}

func readRecipients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return recipientlist.ParseCSV(f)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return recipientlist.SplitEntries(string(data)), nil
}

// streamSend posts req to the progress endpoint and prints events until the
// run ends. Cancelling ctx drops the connection.
func streamSend(ctx context.Context, client *http.Client, server string, req *handlers.SendRequest, w io.Writer) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(server, "/")+progressPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", sse.ContentType)

	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	r := sse.NewReader(resp.Body)
	for {
		frame, err := r.Next()
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(w, "interrupted")
				return errRunCancelled
			}
			if errors.Is(err, io.EOF) {
				return errStreamEnded
			}
			return err
		}

		ev, err := dispatch.DecodeEvent(frame)
		if err != nil {
			return err
		}
		printEvent(w, ev)

		switch e := ev.(type) {
		case dispatch.CompleteEvent:
			return nil
		case dispatch.CancelledEvent:
			return errRunCancelled
		case dispatch.ErrorEvent:
			return fmt.Errorf("%w: %s", errRunFailed, e.Message)
		}
	}
}

func responseError(resp *http.Response) error {
	var er handlers.ErrorResponse
	data, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(data, &er) != nil || er.Error == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if er.Details != nil {
		details, _ := json.Marshal(er.Details)
		return fmt.Errorf("server returned %s: %s %s", resp.Status, er.Error, details)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, er.Error)
}

func printEvent(w io.Writer, ev dispatch.Event) {
	switch e := ev.(type) {
	case dispatch.StartEvent:
		fmt.Fprintf(w, "sending to %d recipients (%d invalid skipped)\n", e.Total, e.Invalid)
	case dispatch.AttemptEvent:
		fmt.Fprintf(w, "[%d/%d] %s\n", e.Index, e.Total, e.Address)
	case dispatch.SentEvent:
		fmt.Fprintf(w, "  sent\n")
	case dispatch.FailedEvent:
		fmt.Fprintf(w, "  failed: %s\n", e.Error)
	case dispatch.CancelledEvent:
		fmt.Fprintf(w, "cancelled after %d of %d sent\n", e.Sent, e.Total)
	case dispatch.CompleteEvent:
		fmt.Fprintf(w, "done: %d sent, %d failed, %d invalid\n", e.Results.Sent, e.Results.Failed, e.Results.Invalid)
	case dispatch.ErrorEvent:
		fmt.Fprintf(w, "error: %s\n", e.Message)
	}
}
