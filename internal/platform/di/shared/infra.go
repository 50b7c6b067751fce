package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"google.golang.org/api/option"

	dbadapter "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db"
	fsadapter "github.com/HsiaoHungKai/myDonut/internal/adapters/out/firestore"
	mailadapter "github.com/HsiaoHungKai/myDonut/internal/adapters/out/mail"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/out/memory"
	uc "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	appcfg "github.com/HsiaoHungKai/myDonut/internal/infra/config"
	"github.com/HsiaoHungKai/myDonut/internal/infra/database"
	firestoreinfra "github.com/HsiaoHungKai/myDonut/internal/infra/firestore"
	"github.com/HsiaoHungKai/myDonut/internal/infra/metrics"
	"github.com/HsiaoHungKai/myDonut/internal/infra/secret"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (database, Firestore, SecretManager)
// - owns the post-commit order event sinks and the metrics registry
//
// Infra must NOT depend on console/mall routers or handlers.
type Infra struct {
	Config *appcfg.Config

	// Storage. Exactly one of DB / Memory is set.
	DB        *database.DB
	Memory    *memory.Store
	TxManager uc.TxManager

	// Clients (owned; Close-managed)
	Firestore     *firestoreinfra.ClientWrapper
	SecretManager *secretmanager.Client

	Metrics *metrics.Registry // nil when METRICS_ENABLED=false
	Sinks   []uc.OrderEventSink
}

// NewInfra initializes shared infra.
// The database is strict (return error).
// SecretManager, Firestore and SendGrid are best-effort (warn + continue).
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}
	return NewInfraWithConfig(ctx, cfg)
}

// NewInfraWithConfig is NewInfra for an already loaded config.
func NewInfraWithConfig(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	inf := &Infra{Config: cfg}

	credFile := cfg.CredentialsFile()
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	}

	// 1) Optional: Secret Manager (only needed to resolve the DB password)
	if cfg.DBPasswordSecret != "" && !cfg.UsesMemoryStore() {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (falling back to DB_PASSWORD)", err)
		} else {
			inf.SecretManager = sm
			pw, err := secret.NewProvider(sm, cfg.GCPProjectID).Get(ctx, cfg.DBPasswordSecret)
			if err != nil {
				log.Printf("[shared.infra] WARN: db password secret not resolved: %v (falling back to DB_PASSWORD)", err)
			} else {
				cfg.DBPassword = pw
			}
		}
	}

	// 2) Storage (strict)
	if cfg.UsesMemoryStore() {
		inf.Memory = memory.NewStore()
		inf.TxManager = inf.Memory
		log.Printf("[shared.infra] Using in-memory store (DB_DRIVER=memory); data is lost on restart")
	} else {
		db, err := database.NewConnection(ctx, database.Options{
			Driver:   cfg.DBDriver,
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: database connection failed: %w", err)
		}
		inf.DB = db
		if cfg.DBAutoMigrate {
			if err := database.Migrate(ctx, db.Client); err != nil {
				_ = inf.Close()
				return nil, fmt.Errorf("shared.infra: migrate failed: %w", err)
			}
			log.Printf("[shared.infra] schema migrated (%d tables)", len(database.Tables()))
		}
		inf.TxManager = dbadapter.NewTxManagerPG(db.Client)
	}

	// 3) Optional: Firestore order projection
	if projectID := strings.TrimSpace(cfg.GetFirestoreProjectID()); projectID != "" {
		fs, err := firestoreinfra.NewClient(ctx, projectID, credFile)
		if err != nil {
			log.Printf("[shared.infra] WARN: firestore init failed: %v (order projection disabled)", err)
		} else {
			inf.Firestore = fs
			inf.Sinks = append(inf.Sinks, fsadapter.NewOrderProjectionFS(fs.Client, cfg.OrdersCollection))
		}
	} else {
		log.Printf("[shared.infra] Firestore not configured (order projection disabled)")
	}

	// 4) Optional: order confirmation mail
	if cfg.SendGridAPIKey != "" {
		client := mailadapter.NewSendGridClient(cfg.SendGridAPIKey, "myDonut")
		inf.Sinks = append(inf.Sinks, mailadapter.NewOrderConfirmationMailer(client, cfg.MailFrom))
		log.Printf("[shared.infra] SendGrid order confirmation enabled from=%s", cfg.MailFrom)
	}

	// 5) Metrics
	if cfg.MetricsEnabled {
		inf.Metrics = metrics.NewRegistry()
	}

	return inf, nil
}

// UsecaseOptions returns the options every use case is built with.
func (i *Infra) UsecaseOptions() []uc.Option {
	if i == nil {
		return nil
	}
	opts := []uc.Option{uc.WithEventSinks(i.Sinks...)}
	if i.Metrics != nil {
		opts = append(opts, uc.WithMetrics(i.Metrics))
	}
	return opts
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	return nil
}

func redactPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
