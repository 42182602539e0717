package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/model"
)

func init() {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage player profiles",
	}
	Root.AddCommand(account)

	create := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(2),
	}
	fRights := create.Flags().Int("rights", model.RightsPlayer, "rights level (0 player, 1 moderator, 2 admin)")
	create.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if *fRights < model.RightsPlayer || *fRights > model.RightsAdmin {
			return fmt.Errorf("rights %d out of range", *fRights)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		hash, err := db.HashPassword(args[1])
		if err != nil {
			return err
		}
		repo := db.NewProfileRepository(database.Pool())
		p, err := repo.CreateProfile(cmd.Context(), &model.Profile{
			Username:     args[0],
			PasswordHash: hash,
			Rights:       *fRights,
		})
		if err != nil {
			return err
		}
		if p.PasswordHash != hash {
			return fmt.Errorf("profile %q already exists", p.Username)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (rights %d)\n", p.Username, p.Rights)
		return nil
	}
	account.AddCommand(create)

	account.AddCommand(&cobra.Command{
		Use:   "rights <username> <level>",
		Short: "Change a profile's rights level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			level, err := strconv.Atoi(args[1])
			if err != nil || level < model.RightsPlayer || level > model.RightsAdmin {
				return fmt.Errorf("invalid rights level %q", args[1])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			database, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			name := model.NormalizeName(args[0])
			if err := db.NewProfileRepository(database.Pool()).SetRights(cmd.Context(), name, level); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has rights %d\n", name, level)
			return nil
		},
	})
}
