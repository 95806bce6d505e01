package main

import (
	"github.com/spf13/cobra"

	"inkwell/internal/api"
	"inkwell/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database and storage info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("db_path: %s\n", resp.DBPath)
				_ = writePlain("blob_root: %s\n", resp.BlobRoot)
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("users: %d\n", resp.UserCount)
				_ = writePlain("posts: %d\n", resp.PostCount)
				_ = writePlain("categories: %d\n", resp.CategoryCount)
				return nil
			})
		},
	}
}

func newCategoriesCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				categories, err := client.ListCategories(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(categories)
				}
				for _, c := range categories {
					if err := writePlain("%d\t%s\t%s\n", c.ID, c.Name, c.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
