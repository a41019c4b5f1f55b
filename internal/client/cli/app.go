package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/config"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/services"
	"github.com/certapply/certapply/internal/client/session"
	"github.com/certapply/certapply/internal/client/store"
	"github.com/certapply/certapply/internal/logging"
)

// App wires the session store, the API client and the services behind the
// interactive REPL.
type App struct {
	config *config.Config
	log    logging.Logger

	db     *sql.DB
	sess   *session.Store
	client api.Client

	auth   services.AuthService
	apps   services.ApplicationService
	notifs services.NotificationService
	users  services.UserService
	stats  services.StatsService

	// sub is the live notification poller for the logged-in principal,
	// nil while logged out.
	sub    *services.Subscription
	reader *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := store.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess, err := session.NewStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.HTTPTimeout, sess.Token)

	return &App{
		config: c,
		log:    log,
		db:     db,
		sess:   sess,
		client: apiClient,
		auth:   services.NewAuthService(apiClient, sess, log),
		apps:   services.NewApplicationService(apiClient, log),
		notifs: services.NewNotificationService(apiClient, log),
		users:  services.NewUserService(apiClient, log),
		stats:  services.NewStatsService(apiClient),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("CertApply CLI (type 'help' for commands)")
	if p := a.sess.Current(); p != nil {
		fmt.Printf("Welcome back, %s (%s)\n", p.DisplayName, p.Role)
		a.startFeed(ctx)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close stops the poller and releases the API client and the local database.
func (a *App) Close() {
	a.stopFeed()
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "closing session database", "error", err)
	}
}

func (a *App) getStatus() string {
	p := a.sess.Current()
	if p == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", p.DisplayName, p.Role)
}

func (a *App) guard(required ...models.Role) session.Decision {
	return a.sess.Authorize(required...)
}

func (a *App) role() models.Role {
	p := a.sess.Current()
	if p == nil {
		return ""
	}
	return p.Role
}

// startFeed begins polling notifications for the stored principal. A feed
// that is already running is left alone.
func (a *App) startFeed(ctx context.Context) {
	if a.sub != nil {
		return
	}
	p := a.sess.Current()
	if p == nil {
		return
	}
	a.sub = a.notifs.Poll(ctx, p.ID, a.config.PollInterval, nil, nil)
}

// stopFeed stops the poller and waits for its goroutine to exit, so the
// next login starts from a clean feed.
func (a *App) stopFeed() {
	if a.sub == nil {
		return
	}
	a.sub.Stop()
	<-a.sub.Done()
	a.sub = nil
}
