package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/anonymize"
	"github.com/Lumos-Labs-HQ/scrub/internal/config"
	"github.com/Lumos-Labs-HQ/scrub/internal/db"
	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/Lumos-Labs-HQ/scrub/internal/utils"
	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var (
	usersKeep		string
	usersSkipNotFound	bool
	usersSite		string
	usersIgnoreEmpty	bool
	usersLanguage		string
	usersSeed		int64
	usersEmailDomains	string
	usersCustomFields	string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Anonymize user profiles and comments",
	Long: `
Rewrite every user profile field and every comment author field in the
target database with realistic synthetic values.

Examples:
  scrub users
  scrub users --keep=1,admin,jane@corp.example --skip-not-found
  scrub users --site=3 --seed=42 --language=de_DE
  scrub users --custom-email-domains=staging.example.com
  scrub users --custom-fields=twitter::username,bio`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			color.Yellow("⚠️  Ignoring positional arguments: %s", strings.Join(args, " "))
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg.Database.Provider, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		ctx := context.Background()
		store := wp.New(conn, cfg.TablePrefix, cfg.Multisite, cfg.Database.Provider)

		flags := anonymize.Flags{
			Keep:               usersKeep,
			SkipNotFound:       usersSkipNotFound,
			Site:               usersSite,
			SiteSet:            cmd.Flags().Changed("site"),
			IgnoreEmptyFields:  usersIgnoreEmpty,
			Language:           usersLanguage,
			Seed:               usersSeed,
			SeedSet:            cmd.Flags().Changed("seed"),
			CustomEmailDomains: usersEmailDomains,
			CustomFields:       usersCustomFields,
		}

		runCfg, err := anonymize.BuildRunConfig(ctx, flags, store, fake.New(usersLanguage, 0))
		if err != nil {
			return err
		}
		for _, warning := range runCfg.Warnings {
			color.Yellow("⚠️  %s", warning)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !utils.AskConfirmation("This will irreversibly rewrite user and comment PII. Continue?", force) {
			color.Yellow("Aborted. No records were touched.")
			return nil
		}

		runner := anonymize.NewRunner(store, runCfg, cfg.ContactMethods, anonymize.Hooks{})
		runner.Progress = true

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		table := uitable.New()
		table.AddRow("Users", summary.Users)
		table.AddRow("Comments", summary.Comments)
		fmt.Println(table)

		msg := "✅ Anonymization complete"
		if len(runCfg.ExcludedUserIDs) > 0 {
			msg += fmt.Sprintf(", kept user ids %s", joinIDs(runCfg.ExcludedUserIDs))
		}
		if runCfg.SiteFilter != nil {
			msg += fmt.Sprintf(", site %d only", *runCfg.SiteFilter)
		}
		color.Green(msg)
		return nil
	},
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().StringVar(&usersKeep, "keep", "", "Comma-separated user ids, logins or emails to leave untouched")
	usersCmd.Flags().BoolVar(&usersSkipNotFound, "skip-not-found", false, "Warn instead of failing when a --keep token matches no user")
	usersCmd.Flags().StringVar(&usersSite, "site", "", "Restrict to one site id (multisite deployments only)")
	usersCmd.Flags().BoolVar(&usersIgnoreEmpty, "ignore-empty-fields", false, "Leave fields that already hold a value untouched")
	usersCmd.Flags().StringVar(&usersLanguage, "language", anonymize.DefaultLocale, "Locale passed to the synthetic data generator")
	usersCmd.Flags().Int64Var(&usersSeed, "seed", 0, "Seed for reproducible generation, advanced once per user")
	usersCmd.Flags().StringVar(&usersEmailDomains, "custom-email-domains", "", "Comma-separated candidate domains for generated emails")
	usersCmd.Flags().StringVar(&usersCustomFields, "custom-fields", "", "Comma-separated extra meta fields to fake, as name or name::method")
}
