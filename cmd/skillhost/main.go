package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/skillhost"
	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/logging"
	"github.com/hupe1980/skillhost/manifest"
	"github.com/hupe1980/skillhost/recognizer"
	"github.com/hupe1980/skillhost/recognizer/anthropic"
	"github.com/hupe1980/skillhost/recognizer/openai"
)

var rootCmd = &cobra.Command{
	Use:   "skillhost",
	Short: "skillhost - conversational host dispatching turns to remote skills",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the host in single message or REPL mode",
	RunE:  runChat,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the skill manifests in a directory",
	RunE:  runValidate,
}

var (
	skillsDirFlag = "skills"
	providerFlag  = "keyword"
	messageFlag   string
	tokenFlag     string
	issuerFlag    string
	audienceFlag  string
	logLevelFlag  = "info"
)

func init() {
	chatCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Single message to send")
	chatCmd.Flags().StringVar(&skillsDirFlag, "skills", skillsDirFlag, "Directory holding skill manifests")
	chatCmd.Flags().StringVar(&providerFlag, "provider", providerFlag, "Recognizer provider (keyword, openai, anthropic)")
	chatCmd.Flags().StringVar(&tokenFlag, "token", "", "Bearer token presented to skills")
	chatCmd.Flags().StringVar(&issuerFlag, "issuer", "skillhost", "Credential issuer")
	chatCmd.Flags().StringVar(&audienceFlag, "audience", "", "Credential audience")
	chatCmd.Flags().StringVar(&logLevelFlag, "log-level", logLevelFlag, "Log level (debug, info, warn, error)")
	validateCmd.Flags().StringVar(&skillsDirFlag, "skills", skillsDirFlag, "Directory holding skill manifests")
	rootCmd.AddCommand(chatCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	registry, err := manifest.LoadDir(skillsDirFlag)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}

	rec, err := buildRecognizer(providerFlag, registry)
	if err != nil {
		return err
	}

	host := skillhost.New(func(o *skillhost.Options) {
		o.Registry = registry
		o.Recognizer = rec
		o.Credentials = core.Credentials{Token: tokenFlag, Issuer: issuerFlag, Audience: audienceFlag}
		o.Logger = logging.NewSlogLogger(parseLogLevel(logLevelFlag), "text", false)
	})
	ctx := context.Background()
	host.Start(ctx)
	defer host.Stop()

	// Single message mode
	if messageFlag != "" {
		return handleTurn(ctx, host, "cli", messageFlag, os.Stdout, os.Stderr)
	}

	// REPL mode
	fmt.Println("skillhost chat (type 'exit' to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if err := handleTurn(ctx, host, "cli-repl", input, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return nil
}

func handleTurn(ctx context.Context, host *skillhost.Host, conversationID, text string, stdout, stderr io.Writer) error {
	activity := core.NewUserMessageActivity(conversationID, "cli-user", text)

	result, err := host.HandleTurn(ctx, activity)
	if err != nil {
		// The result still carries the apology reply; show it and report
		// the failure on stderr.
		fmt.Fprintf(stderr, "turn failed: %v\n", err)
	}
	if result != nil {
		for _, reply := range result.Replies {
			fmt.Fprintln(stdout, reply.Text)
		}
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	registry, err := manifest.LoadDir(skillsDirFlag)
	if err != nil {
		return err
	}

	manifests := registry.Manifests()
	fmt.Printf("Loaded %d manifest(s) from %s\n", len(manifests), skillsDirFlag)
	for _, m := range manifests {
		fmt.Printf("  %s (%s) -> %s\n", m.ID, m.Name, m.Endpoint)
		for _, action := range m.Actions {
			fmt.Printf("    action %s triggers %s\n", action.ID, strings.Join(action.TriggerIntents, ", "))
		}
	}
	return nil
}

// buildRecognizer wires the chosen provider with the registry's intent
// catalog. The keyword provider maps each trigger intent's last path segment
// to the intent itself, which is enough for local smoke testing.
func buildRecognizer(provider string, registry *manifest.Registry) (core.Recognizer, error) {
	intents := triggerIntents(registry)

	switch provider {
	case "keyword":
		k := recognizer.NewKeyword()
		for _, intent := range intents {
			phrase := intent
			if idx := strings.LastIndex(intent, "."); idx >= 0 {
				phrase = intent[idx+1:]
			}
			k.Add(phrase, intent, 0.9)
		}
		return k, nil
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		return openai.NewRecognizer(func(o *openai.Options) {
			o.Intents = intents
		}), nil
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		return anthropic.NewRecognizer(func(o *anthropic.Options) {
			o.Intents = intents
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

func parseLogLevel(level string) logging.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func triggerIntents(registry *manifest.Registry) []string {
	var intents []string
	seen := map[string]struct{}{}
	for _, m := range registry.Manifests() {
		for _, action := range m.Actions {
			for _, intent := range action.TriggerIntents {
				if _, ok := seen[intent]; ok {
					continue
				}
				seen[intent] = struct{}{}
				intents = append(intents, intent)
			}
		}
	}
	return intents
}
