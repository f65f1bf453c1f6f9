package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/service"
	"github.com/spf13/cobra"
)

var (
	askLocation string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a single weather question",
	Example: `  weatherwise ask "Will it rain in New York tomorrow?"
  weatherwise ask --location Paris how windy is it`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewAssistantService()
		return runAsk(cmd, svc, strings.Join(args, " "))
	},
}

func init() {
	askCmd.Flags().StringVarP(&askLocation, "location", "l", "", "location to use when the question names none")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full answer as JSON")
}

func runAsk(cmd *cobra.Command, svc *service.AssistantService, question string) error {
	if askLocation != "" {
		svc.DefaultLocation = askLocation
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	answer, err := svc.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(answer.Reply)
	return nil
}
