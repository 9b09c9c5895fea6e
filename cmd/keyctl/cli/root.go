package cli

import (
	"context"
	"fmt"

	"github.com/dimitrije/apikey-dashboard/internal/config"
	"github.com/dimitrije/apikey-dashboard/internal/database"
	"github.com/dimitrije/apikey-dashboard/internal/logging"
	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Store is the subset of the Key Store the CLI drives.
type Store interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.APIKey, error)
	Create(ctx context.Context, ownerID uuid.UUID, name, key string) (*models.APIKey, error)
	Rename(ctx context.Context, id, ownerID uuid.UUID, name string) (*models.APIKey, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

// Session is an open connection plus the settings every command needs.
type Session struct {
	Store        Store
	Migrate      func(ctx context.Context) error
	OwnerID      uuid.UUID
	APIKeyPrefix string
	Close        func()
}

// Opener connects to the datastore. owner overrides the configured default when non-empty.
type Opener func(ctx context.Context, owner string) (*Session, error)

type runFunc func(ctx context.Context, cmd *cobra.Command, s *Session, args []string) error

// sessionRunner adapts a runFunc into a cobra RunE that opens and closes a Session.
type sessionRunner func(run runFunc) func(*cobra.Command, []string) error

func Execute() error {
	return NewRootCmd(openDatabase).Execute()
}

func NewRootCmd(open Opener) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "keyctl",
		Short: "Manage dashboard API keys from the command line",
		Long: `keyctl creates, lists, renames and deletes API keys directly against the
dashboard database. Keys are scoped to an owner, which defaults to DEFAULT_USER_ID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&owner, "owner", "", "owner id (default is DEFAULT_USER_ID)")

	withSession := func(run runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := open(ctx, owner)
			if err != nil {
				return err
			}
			defer s.Close()
			return run(ctx, cmd, s, args)
		}
	}

	cmd.AddCommand(newMigrateCmd(withSession))
	cmd.AddCommand(newListCmd(withSession))
	cmd.AddCommand(newCreateCmd(withSession))
	cmd.AddCommand(newRenameCmd(withSession))
	cmd.AddCommand(newDeleteCmd(withSession))

	return cmd
}

func openDatabase(ctx context.Context, owner string) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.LogLevel, true)

	ownerID := cfg.DefaultOwnerID
	if owner != "" {
		ownerID, err = uuid.Parse(owner)
		if err != nil {
			return nil, fmt.Errorf("invalid --owner %q: %w", owner, err)
		}
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Session{
		Store:        services.NewAPIKeyService(db),
		Migrate:      db.Migrate,
		OwnerID:      ownerID,
		APIKeyPrefix: cfg.APIKeyPrefix,
		Close:        db.Close,
	}, nil
}
