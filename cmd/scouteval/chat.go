package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/scouteval/internal/chat"
	"github.com/davetashner/scouteval/internal/config"
	"github.com/davetashner/scouteval/internal/llm"
)

// Chat command flags.
var (
	chatModel       string
	chatInteractive bool
)

// chatCmd talks to the scouting assistant.
var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the scouting assistant a question",
	Long: `Send a message to the football scouting assistant and print its reply.

With --interactive, read one message per line from stdin and keep the
conversation history between turns. An empty line or EOF ends the session.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model name (default from config, $MODEL_NAME, or "+config.DefaultModel+")")
	chatCmd.Flags().BoolVarP(&chatInteractive, "interactive", "i", false, "read messages from stdin until EOF")
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" && !chatInteractive {
		return exitError(ExitInvalidArgs, "scouteval: chat needs a message or --interactive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stringFlag(cmd, "model", chatModel, &cfg.Model)
	provider, err := providerFor(cfg)
	if err != nil {
		return err
	}
	agent := chat.New(provider, chat.WithModel(cfg.ResolvedModel()))
	w := cmd.OutOrStdout()

	if !chatInteractive {
		reply, err := agent.Ask(cmd.Context(), message)
		if err != nil {
			return exitError(ExitTotalFailure, "scouteval: %v", err)
		}
		_, _ = fmt.Fprintln(w, reply)
		return nil
	}

	prompt := color.New(color.FgCyan, color.Bold)
	var history []llm.Message
	turn := func(text string) error {
		next, err := agent.Reply(cmd.Context(), append(history, llm.UserMessage(text)))
		if err != nil {
			return err
		}
		history = next
		_, _ = fmt.Fprintln(w, next[len(next)-1].Content)
		return nil
	}

	if message != "" {
		if err := turn(message); err != nil {
			return exitError(ExitTotalFailure, "scouteval: %v", err)
		}
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		_, _ = prompt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}
		if err := turn(text); err != nil {
			// Keep the session alive; the failed turn is not added to history.
			_, _ = color.New(color.FgRed).Fprintf(w, "error: %v\n", err)
		}
	}
	_, _ = fmt.Fprintln(w)
	return scanner.Err()
}
