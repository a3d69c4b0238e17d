package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AnikS22/Scribe-checker/internal/config"
	"github.com/AnikS22/Scribe-checker/internal/exitcode"
)

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "scribed",
	Short: "Clinical transcript processor",
	Long:  "Turns clinical visit transcripts into structured documentation with CPT/ICD codes and LCD medical-necessity validation.",
}

func init() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", os.Getenv("SCRIBE_CONFIG"), "Path to YAML config file")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.APIKey, "api-key", os.Getenv("SCRIBE_API_KEY"), "Inbound shared-secret API key (or set SCRIBE_API_KEY)")
	pf.StringVar(&cfg.BackendBaseURL, "backend-url", os.Getenv("SCRIBE_BACKEND_URL"), "Generative backend base URL (or set SCRIBE_BACKEND_URL)")
	pf.StringVar(&cfg.BackendAPIKey, "backend-key", os.Getenv("SCRIBE_BACKEND_API_KEY"), "Generative backend API key (or set SCRIBE_BACKEND_API_KEY)")
	pf.StringVar(&cfg.BackendModel, "model", os.Getenv("SCRIBE_MODEL"), "Backend model name")
	pf.StringVar(&cfg.BackendMode, "backend-mode", os.Getenv("SCRIBE_BACKEND_MODE"), "Backend calling convention: completion or agent")
	pf.StringVar(&cfg.CodingMode, "coding-mode", os.Getenv("SCRIBE_CODING_MODE"), "Coding stage mode: model or dictionary")
	pf.StringVar(&cfg.DictionaryPath, "dictionary", os.Getenv("SCRIBE_DICTIONARY_PATH"), "Path to CPT/LCD dictionary JSON")
	pf.BoolVar(&cfg.RedactPII, "redact", os.Getenv("SCRIBE_REDACT") == "true", "Scrub obvious identifiers before extraction")
}

// loadConfig merges the optional YAML file and fills defaults.
func loadConfig() error {
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return err
		}
	}
	cfg.ICDAgentID = envDefault(cfg.ICDAgentID, "SCRIBE_ICD_AGENT_ID")
	cfg.CPTAgentID = envDefault(cfg.CPTAgentID, "SCRIBE_CPT_AGENT_ID")
	cfg.LCDAgentID = envDefault(cfg.LCDAgentID, "SCRIBE_LCD_AGENT_ID")
	cfg.ApplyDefaults()
	return nil
}

func envDefault(current, key string) string {
	if current != "" {
		return current
	}
	return os.Getenv(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
