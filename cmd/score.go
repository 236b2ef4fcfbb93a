package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/config"
	"github.com/spigell/job-ranker/internal/filtering"
	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/scoring"
	"github.com/spigell/job-ranker/internal/utils"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptExplain             = "Explain a posting"
	PromptReportByCompanies   = "Report by companies"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"

	titleWidth = 48
)

var errExit = errors.New("exit requested")

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score, filter and rank job postings",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("jobs", "i", "", "JSON or YAML file with job postings")
	scoreCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")
	scoreCmd.Flags().IntP("workers", "w", 0, "concurrent scoring workers (default is the number of CPUs)")
	scoreCmd.Flags().Float64P("minimum-score", "m", 0, "drop postings scored below this value")
	scoreCmd.Flags().BoolP("yes", "y", false, "print the ranking and exit without prompting")

	viper.BindPFlag("jobs", scoreCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("exclude-file", scoreCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("workers", scoreCmd.Flags().Lookup("workers"))
	viper.BindPFlag("minimum-score", scoreCmd.Flags().Lookup("minimum-score"))
}

// ranking is the scored outcome the interactive menu works on.
type ranking struct {
	postings *jobs.Postings
	results  []*scoring.Result
	sources  map[*scoring.Result]*jobs.Posting
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(cfg, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resolved, err := config.LoadAll(cfg.Paths())
	if err != nil {
		logger.Fatal("resolving configuration", zap.Error(err), zap.Bool("invalid_config", config.IsConfigError(err)))
	}

	logger.Info("configuration resolved",
		zap.String("mode", string(resolved.Mode)),
		zap.Any("rules", resolved.Rules.Counts()),
	)

	if strings.TrimSpace(cfg.Jobs) == "" {
		logger.Fatal("jobs file is required", zap.String("hint", "set 'jobs' in the config, --jobs or JOB_RANKER_JOBS"))
	}

	postings, err := jobs.LoadFromFile(cfg.Jobs)
	if err != nil {
		logger.Fatal("loading postings", zap.Error(err))
	}

	logger.Info("getting postings", zap.Int("count", postings.Len()))

	if postings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	engine := scoring.NewEngine(resolved, logger)
	filterCfg := &filtering.Config{
		CompanyBlacklist: resolved.Profile.CompanyBlacklist,
		ExcludeFile:      cfg.ExcludeFile,
		MinimumScore:     cfg.MinimumScore,
		Workers:          cfg.Workers,
	}

	left, results, err := filtering.Run(ctx, filterCfg, filtering.Deps{Logger: logger, Engine: engine}, filtering.Default(), postings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if left.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	r := newRanking(left, results)
	printRanking(r)

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	prompt := promptui.Select{
		Label: "What next?",
		Items: []string{PromptShowRanking, PromptExplain, PromptReportByCompanies, PromptResultsToFile, PromptAppendToExcludeFile, PromptExit},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, cfg, r); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func newRanking(postings *jobs.Postings, results map[*jobs.Posting]*scoring.Result) *ranking {
	ordered := make([]*scoring.Result, 0, postings.Len())
	sources := make(map[*scoring.Result]*jobs.Posting, postings.Len())
	for _, posting := range postings.Items {
		if result, ok := results[posting]; ok {
			ordered = append(ordered, result)
			sources[result] = posting
		}
	}
	return &ranking{postings: postings, results: scoring.Rank(ordered), sources: sources}
}

func handleAction(action string, logger *zap.Logger, cfg *Config, r *ranking) error {
	switch action {
	case PromptShowRanking:
		printRanking(r)
		return nil
	case PromptExplain:
		return explainPosting(r)
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(r.postings.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", r.postings.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := jobs.DumpToTmpFile("results_*.json", r.results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, cfg.ExcludeFile, r)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func explainPosting(r *ranking) error {
	items := make([]string, 0, len(r.results)+1)
	for _, result := range r.results {
		items = append(items, label(result))
	}

	postingPrompt := promptui.Select{
		Label: "Choose a posting and press ENTER",
		Items: append(items, PromptBack),
		Size:  10,
	}

	idx, _, err := postingPrompt.Run()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(r.results) {
		return nil
	}

	result := r.results[idx]
	printExplanation(result, r.sources[result])
	return nil
}

func appendToExcludeFile(logger *zap.Logger, excludeFile string, r *ranking) error {
	if strings.TrimSpace(excludeFile) == "" {
		logger.Warn("exclude file is not configured", zap.String("hint", "set 'exclude-file' or --exclude-file"))
		return nil
	}

	excluded, err := jobs.GetExcludedPostingsFromFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(r.postings.ToExcluded())

	if err = excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", r.postings.Len()))
	return nil
}

func label(result *scoring.Result) string {
	return fmt.Sprintf("%s %s / %s / %s",
		result.JobID,
		utils.TruncateForLog(result.Title, titleWidth),
		result.Company,
		utils.FormatScore(result.FinalScore),
	)
}

func printRanking(r *ranking) {
	fmt.Printf("%-4s %-7s %-12s %s\n", "#", "SCORE", "ID", "POSTING")
	for i, result := range r.results {
		fmt.Printf("%-4d %-7s %-12s %s / %s\n",
			i+1,
			utils.FormatScore(result.FinalScore),
			result.JobID,
			utils.TruncateForLog(result.Title, titleWidth),
			result.Company,
		)
	}
}

func printExplanation(result *scoring.Result, posting *jobs.Posting) {
	fmt.Println(label(result))
	if posting != nil && posting.URL != "" {
		fmt.Printf("  %s\n", posting.URL)
	}
	if result.Rejected() {
		fmt.Printf("  rejected: %s\n", result.RejectReason())
	}
	for _, line := range scoring.Explain(result) {
		fmt.Printf("  %-32s %8s  %s\n", line.Label, utils.FormatDelta(line.Delta), line.Reason)
	}
}
