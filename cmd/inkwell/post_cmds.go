package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell/internal/api"
	"inkwell/internal/config"
)

func newPostCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage blog posts",
	}

	cmd.AddCommand(
		newPostCreateCmd(cfg, jsonOutput),
		newPostShowCmd(cfg, jsonOutput),
		newPostFeedCmd(cfg, jsonOutput),
		newPostFilterCmd(cfg, jsonOutput),
		newPostPublishCmd(cfg, jsonOutput),
		newPostDeleteCmd(cfg),
	)
	return cmd
}

func newPostCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var content, authorEmail string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a draft post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if authorEmail == "" {
				return fmt.Errorf("--author is required")
			}
			return withClient(cfg, func(client *api.Client) error {
				post, err := client.CreatePost(cmd.Context(), api.PostCreateRequest{
					Title:       args[0],
					Content:     content,
					AuthorEmail: authorEmail,
				})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				return writePlain("created draft %d: %s\n", post.ID, post.Title)
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "post body")
	cmd.Flags().StringVar(&authorEmail, "author", "", "author email")
	return cmd
}

func newPostShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show post details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				post, err := client.GetPost(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				return writePostDetail(post)
			})
		},
	}
}

func newPostFeedCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List published posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				posts, err := client.Feed(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(posts)
				}
				return writePostList(posts)
			})
		},
	}
}

func newPostFilterCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <query>",
		Short: "List posts matching a title or content substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				posts, err := client.FilterPosts(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(posts)
				}
				return writePostList(posts)
			})
		},
	}
}

func newPostPublishCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				post, err := client.PublishPost(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				return writePlain("published %d: %s\n", post.ID, post.Title)
			})
		},
	}
}

func newPostDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeletePost(cmd.Context(), id); err != nil {
					return err
				}
				return writePlain("deleted post %d\n", id)
			})
		},
	}
}
