package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"inkwell/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writePostList(posts []models.Post) error {
	for _, post := range posts {
		state := "draft"
		if post.Published {
			state = "published"
		}
		if err := writePlain("%d\t%s\t%s\n", post.ID, state, post.Title); err != nil {
			return err
		}
	}
	return nil
}

func writePostDetail(post models.Post) error {
	lines := []string{
		fmt.Sprintf("id: %d", post.ID),
		fmt.Sprintf("title: %s", post.Title),
		fmt.Sprintf("published: %t", post.Published),
		fmt.Sprintf("author_id: %d", post.AuthorID),
		fmt.Sprintf("created_at: %s", formatTime(post.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(post.UpdatedAt)),
	}
	if post.Content != "" {
		lines = append(lines, fmt.Sprintf("content: %s", post.Content))
	}
	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func writeUserDetail(user models.User) error {
	lines := []string{
		fmt.Sprintf("id: %d", user.ID),
		fmt.Sprintf("email: %s", user.Email),
	}
	if user.Name != "" {
		lines = append(lines, fmt.Sprintf("name: %s", user.Name))
	}
	if user.SelfieFile != "" {
		lines = append(lines, fmt.Sprintf("selfie: %s (%s)", user.SelfieFile, user.SelfieMime))
	}
	if user.DocumentFile != "" {
		lines = append(lines, fmt.Sprintf("document: %s (%s)", user.DocumentFile, user.DocumentMime))
	}
	lines = append(lines, fmt.Sprintf("created_at: %s", formatTime(user.CreatedAt)))
	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
