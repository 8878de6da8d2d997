package commands

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/auth"
	"github.com/solace-app/solace/internal/config"
	"github.com/solace-app/solace/pkg/docstore"
)

var (
	version string
	commit  string
	date    string

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solace",
	Short: "Solace - realtime peer-support community engine",
	Long: `Solace is the realtime engine behind a peer-support community:
an anonymous post feed with comment threads and support reactions,
a guided journal, daily habit logging and a conversational companion.

All shared state lives in a push-based document store; every open view
receives the full, ordered result set on each change.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to solace.yml (default: ./solace.yml)")
}

// session bundles the per-invocation collaborators: configuration, the
// document store client and the auth provider. Identity comes from the
// SOLACE_TOKEN env var when set.
type session struct {
	cfg   *config.Config
	store *docstore.Client
	auth  *auth.Provider
	user  *auth.User
}

// newSession builds the collaborators for one command run. With requireUser
// set, a missing or invalid SOLACE_TOKEN fails before any store call.
func newSession(requireUser bool) (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	store, err := docstore.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Instance, cfg.Media.BaseURL)
	if err != nil {
		return nil, err
	}

	provider := auth.NewProvider(cfg.AuthSecret())
	s := &session{cfg: cfg, store: store, auth: provider}

	if token := os.Getenv("SOLACE_TOKEN"); token != "" {
		user, err := provider.SignIn(token)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("sign-in failed: %w", err)
		}
		s.user = user
	}

	if requireUser && s.user == nil {
		store.Close()
		return nil, fmt.Errorf("this command requires a signed-in user: set SOLACE_TOKEN")
	}

	return s, nil
}

// Close releases the session's store connection.
func (s *session) Close() error {
	return s.store.Close()
}
