package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/dimitrije/apikey-dashboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ---------- migrate ----------

func newMigrateCmd(withSession sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *Session, _ []string) error {
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		}),
	}
}

// ---------- list ----------

func newListCmd(withSession sessionRunner) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List API keys, newest first",
		Args:    cobra.NoArgs,
		RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *Session, _ []string) error {
			keys, err := s.Store.List(ctx, s.OwnerID)
			if err != nil {
				return fmt.Errorf("list api keys: %w", err)
			}

			rows := make([]dto.APIKeyResponse, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, dto.APIKeyResponse{
					ID:        k.ID,
					Name:      k.Name,
					Key:       k.Key,
					CreatedAt: dto.FormatTimestamp(k.CreatedAt),
					LastUsed:  dto.FormatOptionalTimestamp(k.LastUsedAt),
				})
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			if len(rows) == 0 {
				fmt.Fprintln(out, "No API keys. Use 'keyctl create --name <name>' to create one.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKEY\tCREATED\tLAST USED")
			for _, r := range rows {
				lastUsed := "never"
				if r.LastUsed != nil {
					lastUsed = *r.LastUsed
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, dto.MaskKey(r.Key), r.CreatedAt, lastUsed)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// ---------- create ----------

func newCreateCmd(withSession sessionRunner) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a new API key",
		Long:    "Generate a new API key for the owner. The full key is printed once.",
		Example: `  keyctl create --name "Production"`,
		Args:    cobra.NoArgs,
		RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *Session, _ []string) error {
			validName, err := services.ValidateName(name)
			if err != nil {
				return err
			}

			apiKey, err := s.Store.Create(ctx, s.OwnerID, validName, services.GenerateAPIKey(s.APIKeyPrefix))
			if err != nil {
				return fmt.Errorf("create api key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "API Key created:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  ID:    %s\n", apiKey.ID)
			fmt.Fprintf(out, "  Name:  %s\n", apiKey.Name)
			fmt.Fprintf(out, "  Key:   %s\n", apiKey.Key)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the key (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// ---------- rename ----------

func newRenameCmd(withSession sessionRunner) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename an API key",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *Session, args []string) error {
			validName, err := services.ValidateName(name)
			if err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			apiKey, err := s.Store.Rename(ctx, id, s.OwnerID, validName)
			if errors.Is(err, services.ErrAPIKeyNotFound) {
				return fmt.Errorf("no API key with id %s", id)
			}
			if err != nil {
				return fmt.Errorf("rename api key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", apiKey.ID, apiKey.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// ---------- delete ----------

func newDeleteCmd(withSession sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an API key",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *Session, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deleted, err := s.Store.Delete(ctx, id, s.OwnerID)
			if err != nil {
				return fmt.Errorf("delete api key: %w", err)
			}
			if !deleted {
				return fmt.Errorf("no API key with id %s", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted API key %s\n", id)
			return nil
		}),
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
