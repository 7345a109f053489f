package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/PRYANIK26/FullStack-AI-HR/internal/interview"
	"github.com/PRYANIK26/FullStack-AI-HR/internal/logger"
	"github.com/PRYANIK26/FullStack-AI-HR/internal/oracle"
	"github.com/PRYANIK26/FullStack-AI-HR/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const exitAnswer = "/exit"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("candidate", "c", "", "candidate name, overrides the config")
	runCmd.Flags().StringP("report-file", "r", "", "write the final report to this file instead of a temporary one")

	viper.BindPFlag("candidate.name", runCmd.Flags().Lookup("candidate"))
	viper.BindPFlag("report-file", runCmd.Flags().Lookup("report-file"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ai-interviewer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.Candidate == nil || config.Candidate.Name == "" {
		logger.Fatal("candidate name is required under candidate.name or via the --candidate flag")
	}

	if err := config.Interview.Validate(); err != nil {
		logger.Fatal("invalid interview configuration", zap.Error(err))
	}

	data, err := buildCandidateData(config.Candidate)
	if err != nil {
		logger.Fatal("loading candidate data", zap.Error(err))
	}

	orc, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the decision provider", zap.Error(err))
	}

	manager := interview.NewManager(config.Interview, data, orc, logger)

	turn, err := manager.Start(ctx, config.Candidate.Name)
	if err != nil {
		logger.Fatal("starting the session", zap.Error(err))
	}

	if err := interviewLoop(ctx, manager, config.Interview, turn, logger); err != nil {
		logger.Fatal("session aborted", zap.Error(err))
	}

	finishSession(manager, config.ReportFile, logger)
}

// interviewLoop asks questions and feeds answers back until the engine asks
// to stop or the interviewer types the exit command.
func interviewLoop(ctx context.Context, manager *interview.Manager, cfg *interview.Config, turn *interview.Turn, logger *zap.Logger) error {
	for {
		fmt.Printf("\n[%s / %s / %s]\n%s\n", turn.Phase, turn.Area, turn.Difficulty, turn.Question)

		answer, err := readAnswer()
		if err != nil {
			return err
		}
		if answer == exitAnswer {
			logger.Info("exiting", zap.String("reason", "exit requested from prompt"))
			return nil
		}

		turn, err = manager.ProcessAnswer(ctx, answer)
		if err != nil {
			if errors.Is(err, interview.ErrFinished) {
				return nil
			}
			return err
		}

		if turn.Analysis != nil {
			logger.Info("answer scored",
				zap.String("session_id", manager.SessionID),
				zap.Float64("technical", turn.Analysis.TechnicalScore),
				zap.Float64("communication", turn.Analysis.CommunicationScore),
				zap.Float64("confidence", turn.Analysis.ConfidenceScore),
				zap.Strings("red_flags", turn.Analysis.RedFlags),
			)
		}
		if turn.Fallback {
			logger.Warn("continuing with a fallback question", zap.String("phase", string(turn.Phase)))
		}

		if manager.ShouldEnd(cfg.MaxSessionMinutes, cfg.MaxQuestions) {
			fmt.Printf("\n%s\n", turn.Question)
			return nil
		}
	}
}

func readAnswer() (string, error) {
	prompt := promptui.Prompt{
		Label: "Answer",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("answer must not be empty")
			}
			return nil
		},
	}

	answer, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// finishSession prints the summary and writes the full report to disk.
func finishSession(manager *interview.Manager, reportFile string, logger *zap.Logger) {
	report := manager.Report()

	logger.Info("interview finished",
		zap.String("session_id", manager.SessionID),
		zap.Int("overall_score", report.OverallScore),
		zap.String("recommendation", report.Recommendation),
		zap.String("confidence", report.Confidence),
		zap.Int("questions_asked", report.QuestionsAsked),
		zap.Float64("duration_minutes", report.DurationMinutes),
	)

	var filename string
	var err error
	if reportFile != "" {
		filename = reportFile
		err = report.DumpToFile(reportFile)
	} else {
		filename, err = report.DumpToTmpFile()
	}
	if err != nil {
		logger.Fatal("dumping the report to file", zap.Error(err))
	}

	logger.Info("report written", zap.String("filename", filename))
}

// buildCandidateData resolves the candidate's prior data, reading the
// recruiter screening document when one is configured.
func buildCandidateData(cfg *CandidateConfig) (interview.CandidateData, error) {
	data := interview.CandidateData{
		Name:         cfg.Name,
		VacancyTitle: cfg.VacancyTitle,
		Industry:     cfg.Industry,
	}

	if cfg.HRAnalysisFile != "" {
		raw, err := os.ReadFile(cfg.HRAnalysisFile)
		if err != nil {
			return data, fmt.Errorf("reading hr analysis file: %w", err)
		}
		data.HRAnalysisJSON = string(raw)
	}

	return data, nil
}

// newOracle builds the decision provider selected in the config. Gemini is
// the default.
func newOracle(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (oracle.Oracle, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini configuration is required when the gemini provider is selected")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		generator, err := oracle.NewGeminiGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		return oracle.NewClient(generator, oracleLogger(logger, "gemini", generator.Model()), cfg.MaxLogLength), nil

	case "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai configuration is required when the openai provider is selected")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		generator, err := oracle.NewOpenAIGenerator(apiKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
		if err != nil {
			return nil, err
		}

		return oracle.NewClient(generator, oracleLogger(logger, "openai", generator.Model()), cfg.MaxLogLength), nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func oracleLogger(base *zap.Logger, provider, model string) *zap.Logger {
	return logger.WithCommonFields(base, provider, model)
}
