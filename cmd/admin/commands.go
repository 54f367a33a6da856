package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"chronogift/internal/config"
	"chronogift/internal/database"
	"chronogift/internal/models"
	"chronogift/internal/passcode"
	"chronogift/internal/repository"
	"chronogift/internal/seed"
	"chronogift/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type adminCLI struct {
	cfg    *config.Config
	db     *gorm.DB
	asJSON bool
}

func newRootCmd() *cobra.Command {
	a := &adminCLI{}
	root := &cobra.Command{
		Use:           "chronogift-admin",
		Short:         "ChronoGift operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			a.cfg, a.db = cfg, db
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.db == nil {
				return nil
			}
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(a.newMigrateCmd())
	root.AddCommand(a.newSeedCmd())
	root.AddCommand(a.newAuditCmd())
	root.AddCommand(a.newGiftsCmd())
	return root
}

func (a *adminCLI) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(cmd.Context(), a.db, a.cfg.DBDriver); err != nil {
				return err
			}
			return a.printVersion(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.MigrateDown(cmd.Context(), a.db, a.cfg.DBDriver); err != nil {
				return err
			}
			return a.printVersion(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printVersion(cmd)
		},
	})
	return cmd
}

func (a *adminCLI) printVersion(cmd *cobra.Command) error {
	v, err := database.SchemaVersion(cmd.Context(), a.db, a.cfg.DBDriver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
	return nil
}

func (a *adminCLI) newSeedCmd() *cobra.Command {
	opts := seed.Options{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo users and gifts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.IsProduction() {
				return fmt.Errorf("refusing to seed a production database")
			}
			summary, err := seed.Run(cmd.Context(), a.db, passcode.NewHasher(passcode.DefaultParams), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users=%d gifts=%d opened=%d audit=%d (passcode %q)\n",
				summary.Users, summary.Gifts, summary.Opened, summary.AuditRecords, seed.DefaultPasscode)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 10, "Number of users to create")
	cmd.Flags().IntVar(&opts.GiftsPerUser, "gifts", 3, "Gifts sent by each user")
	cmd.Flags().Float64Var(&opts.OpenedRatio, "opened-ratio", 0.5, "Share of past-due gifts marked opened")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate without writing")
	return cmd
}

func (a *adminCLI) newAuditCmd() *cobra.Command {
	var giftID string
	var limit, offset int
	cmd := &cobra.Command{Use: "audit", Short: "Inspect the gift transaction log"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewAuditService(repository.NewAuditRepository(a.db), a.cfg.StoreTimeout)

			var recs []models.AuditRecord
			var err error
			if giftID != "" {
				recs, err = svc.ListByGift(cmd.Context(), giftID)
			} else {
				recs, err = svc.ListAll(cmd.Context(), limit, offset)
			}
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), recs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tGIFT\tEVENT\tSENDER\tACTOR\tAT")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.GiftID, r.Event, r.SenderID, r.ActorEmail, formatTime(r.CreatedAt))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&giftID, "gift", "", "Restrict to one gift")
	list.Flags().IntVar(&limit, "limit", 50, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")
	cmd.AddCommand(list)
	return cmd
}

func (a *adminCLI) newGiftsCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{Use: "gifts", Short: "Inspect gifts"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List gifts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewGiftService(
				repository.NewGiftRepository(a.db),
				service.NewAuditService(repository.NewAuditRepository(a.db), a.cfg.StoreTimeout),
				passcode.NewHasher(passcode.DefaultParams),
				service.GiftServiceConfig{
					ShareBaseURL: a.cfg.ShareBaseURL,
					StrictReopen: a.cfg.StrictReopen(),
					StoreTimeout: a.cfg.StoreTimeout,
				})

			gifts, err := svc.ListAll(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), gifts)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRECIPIENT\tUNLOCK\tOPENED\tLINK")
			for _, g := range gifts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
					g.ID, g.RecipientEmail, formatTime(g.UnlockAt), g.Opened, svc.ShareURL(g.ID))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")
	cmd.AddCommand(list)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
