package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/model"
)

// askTimeout bounds the whole pipeline including the model round trip,
// which runs well past the per-provider timeout.
const askTimeout = 2 * time.Minute

func (s *runtimeState) newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer a free-text question about Sui market data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return clierr.New(clierr.CodeUsage, "query must not be empty")
			}

			ag, err := s.newAgent(s.settings, s.market)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
			defer cancel()
			resp, err := ag.Do(ctx, query)
			if err != nil {
				return err
			}

			if s.settings.OutputMode == "plain" {
				return s.printPlainResponse(resp)
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), resp, nil, cacheMetaBypass())
		},
	}
	return cmd
}

// printPlainResponse writes only the text a person would want to read:
// the final answer, or the follow-up request when the model needs more.
func (s *runtimeState) printPlainResponse(resp model.Response) error {
	text := resp.FinalAnswer
	if resp.Status == model.StatusNeedsInfo {
		text = resp.Request
	}
	if text == "" {
		text = "No answer produced."
	}
	_, err := fmt.Fprintln(s.runner.stdout, text)
	return err
}
