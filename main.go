package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/zeroverload/SmartLib/internal/config"
	"github.com/zeroverload/SmartLib/internal/database"
	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/notify"
	"github.com/zeroverload/SmartLib/internal/scheduler"
	"github.com/zeroverload/SmartLib/internal/server"
	"github.com/zeroverload/SmartLib/internal/storage"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/version"
	"github.com/zeroverload/SmartLib/internal/worker"
)

const (
	greetingBanner = `
 ____                       _   _     _ _
/ ___| _ __ ___   __ _ _ __| |_| |   (_) |__
\___ \| '_ ' _ \ / _' | '__| __| |   | | '_ \
 ___) | | | | | | (_| | |  | |_| |___| | |_) |
|____/|_| |_| |_|\__,_|_|   \__|_____|_|_.__/
`
	shutdownTimeout = 10 * time.Second
)

var (
	configFile string

	newUsername string
	newName     string
	newRole     string
	newContact  string

	rootCmd = &cobra.Command{
		Use:   "smartlib",
		Short: "SmartLib is a library lending service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the overdue scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an account, the password is read from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createUser(cmd.Context())
		},
	}

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Mark overdue loans once and send the reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sweep(cmd.Context())
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetCurrentVersion())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")

	userCreateCmd.Flags().StringVarP(&newUsername, "username", "u", "", "login name")
	userCreateCmd.Flags().StringVarP(&newName, "name", "n", "", "display name")
	userCreateCmd.Flags().StringVarP(&newRole, "role", "r", string(model.RoleReader), "reader or admin")
	userCreateCmd.Flags().StringVar(&newContact, "contact", "", "email address or phone number")
	_ = userCreateCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(serveCmd, userCmd, sweepCmd, versionCmd)
}

// app holds everything built from the config.
type app struct {
	store *store.Store
	svc   *library.Service
	pool  *worker.NotificationPool
}

func bootstrap(ctx context.Context) (*app, error) {
	opts, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log.Logger = log.NewLogger()

	var backend storage.Storage
	if opts.DSN == config.MemoryDSN {
		log.Warn("Using in-memory storage, data is lost on exit")
		backend = storage.NewMemoryStorage()
	} else {
		db, err := database.NewDB(opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to migrate database")
		}
		backend = storage.NewSQLStorage(db.DB, db.Dialect)
	}

	s, err := store.NewStore(ctx, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to ping storage")
	}

	policy := &model.SystemSettingPolicy{
		DailyFineRate:  decimal.NewFromFloat(opts.DailyFineRate),
		MaxBorrowLimit: opts.MaxBorrowLimit,
		Announcement:   opts.Announcement,
	}
	if opts.SeedDemoData {
		_, err = s.Seed(ctx, policy)
	} else {
		err = s.EnsurePolicy(ctx, policy)
	}
	if err != nil {
		s.Close()
		return nil, err
	}

	pool := worker.NewNotificationPool(notify.NewNotifier(opts), opts.WorkerPoolSize)
	svc := library.NewService(s, library.WithWorkPool(pool))
	return &app{store: s, svc: svc, pool: pool}, nil
}

// close drains queued notifications before closing the storage.
func (a *app) close() {
	a.pool.Close()
	if err := a.store.Close(); err != nil {
		log.Error("Failed to close storage", zap.Error(err))
	}
	log.Sync()
}

func serve() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	fmt.Print(greetingBanner)

	security, err := a.store.GetOrUpsertSecuritySetting(ctx)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(a.svc, config.Opts.OverdueSweepSpec)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv, err := server.StartServer(ctx, a.store, a.svc, security.JWTSecret)
	if err != nil {
		return err
	}
	log.Info("SmartLib started", zap.String("version", version.GetCurrentVersion()), zap.String("addr", srv.Addr))

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	return nil
}

// readPassword reads a password without echo, twice.
func readPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return strings.TrimSpace(string(first)), nil
}

func createUser(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	password, err := readPassword()
	if err != nil {
		return err
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	name := newName
	if name == "" {
		name = newUsername
	}
	user, err := a.svc.CreateUser(ctx, &model.UserCreateRequest{
		Username: newUsername,
		Password: password,
		Name:     name,
		Role:     model.Role(newRole),
		Contact:  newContact,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s %q with id %d\n", user.Role, user.Username, user.ID)
	return nil
}

func sweep(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	swept, err := a.svc.SweepOverdue(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Marked %d loans overdue\n", swept)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
