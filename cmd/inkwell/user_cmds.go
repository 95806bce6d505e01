package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/api"
	"inkwell/internal/config"
	"inkwell/internal/models"
)

func newUserCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their identity documents",
	}

	cmd.AddCommand(
		newUserSignupCmd(cfg, jsonOutput),
		newUserShowCmd(cfg, jsonOutput),
		newUserUploadCmd(cfg, jsonOutput),
		newUserDownloadCmd(cfg),
	)
	return cmd
}

func newUserSignupCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				user, err := client.Signup(cmd.Context(), api.SignupRequest{Name: name, Email: args[0]})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(user)
				}
				return writePlain("created user %d (%s)\n", user.ID, user.Email)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newUserShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				user, err := client.GetUser(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(user)
				}
				return writeUserDetail(user)
			})
		},
	}
}

func newUserUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var selfiePath, documentPath string

	cmd := &cobra.Command{
		Use:   "upload <id>",
		Short: "Upload identity documents for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if selfiePath == "" && documentPath == "" {
				return fmt.Errorf("at least one of --selfie or --document is required")
			}

			var files []api.UploadFile
			var closers []*os.File
			defer func() {
				for _, f := range closers {
					f.Close()
				}
			}()

			for slot, path := range map[models.DocType]string{
				models.DocTypeSelfie:   selfiePath,
				models.DocTypeDocument: documentPath,
			} {
				if path == "" {
					continue
				}
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				closers = append(closers, f)
				files = append(files, api.UploadFile{
					Slot:      slot,
					Filename:  filepath.Base(path),
					MediaType: mediaTypeForFile(path),
					Content:   f,
				})
			}

			return withClient(cfg, func(client *api.Client) error {
				user, err := client.UploadDocuments(cmd.Context(), id, files)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(user)
				}
				return writeUserDetail(user)
			})
		},
	}

	cmd.Flags().StringVar(&selfiePath, "selfie", "", "path to the selfie image")
	cmd.Flags().StringVar(&documentPath, "document", "", "path to the identity document")
	return cmd
}

func newUserDownloadCmd(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <id> <doctype>",
		Short: "Download a stored identity document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			doctype, err := models.ParseDocType(args[1])
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			return withClient(cfg, func(client *api.Client) error {
				mediaType, err := client.DownloadDocument(cmd.Context(), id, doctype, out)
				if err != nil {
					return err
				}
				if outPath != "" {
					fmt.Fprintf(os.Stderr, "wrote %s (%s) to %s\n", doctype, mediaType, outPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the document to a file instead of stdout")
	return cmd
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}

func mediaTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}
