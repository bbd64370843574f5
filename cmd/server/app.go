package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"

	"tokenguard/internal/compliance"
	"tokenguard/internal/compliance/modules"
	compliancestore "tokenguard/internal/compliance/store"
	"tokenguard/internal/identity/catalog"
	identitymetrics "tokenguard/internal/identity/metrics"
	"tokenguard/internal/identity/onchainid"
	identityservice "tokenguard/internal/identity/service"
	identitystore "tokenguard/internal/identity/store"
	jwttoken "tokenguard/internal/jwt_token"
	"tokenguard/internal/platform/config"
	"tokenguard/internal/platform/metrics"
	"tokenguard/internal/platform/migrations"
	"tokenguard/internal/platform/redis"
	ratelimitmetrics "tokenguard/internal/ratelimit/metrics"
	ratelimit "tokenguard/internal/ratelimit/middleware"
	ratelimitmodels "tokenguard/internal/ratelimit/models"
	"tokenguard/internal/ratelimit/store/bucket"
	"tokenguard/internal/token/ledger"
	tokenmetrics "tokenguard/internal/token/metrics"
	"tokenguard/internal/token/models"
	tokenservice "tokenguard/internal/token/service"
	httptransport "tokenguard/internal/transport/http"
	"tokenguard/pkg/domain"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/platform/audit/publisher"
	compliancepublisher "tokenguard/pkg/platform/audit/publishers/compliance"
	kafkapublisher "tokenguard/pkg/platform/audit/publishers/kafka"
	auditmemory "tokenguard/pkg/platform/audit/store/memory"
	auditpostgres "tokenguard/pkg/platform/audit/store/postgres"
	"tokenguard/pkg/platform/audit/worker"
)

// References under which the bundled modules and registries are published.
var (
	complianceRef       = domain.MustParseAddress("0x00000000000000000000000000000000000000cc")
	identityRegistryRef = domain.MustParseAddress("0x00000000000000000000000000000000000000d1")
	supplyLimitRef      = domain.MustParseAddress("0x00000000000000000000000000000000000000c1")
	maxBalanceRef       = domain.MustParseAddress("0x00000000000000000000000000000000000000c2")
	countryRestrictRef  = domain.MustParseAddress("0x00000000000000000000000000000000000000c3")
)

// app is the assembled process: an HTTP handler, the background loops that
// run next to it and the resources to release on shutdown.
type app struct {
	handler    http.Handler
	registry   *prometheus.Registry
	jwt        *jwttoken.JWTService
	tokens     *tokenservice.Service
	identities *identityservice.Service
	trust      *identityservice.Trust
	compliance *compliance.Registry
	background []func(ctx context.Context) error
	closers    []func()
}

// close releases resources in reverse acquisition order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires every service from cfg. On error, whatever was already
// acquired is released before returning.
func buildApp(ctx context.Context, cfg config.Server, logger *slog.Logger) (_ *app, err error) {
	a := &app{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			a.close()
		}
	}()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	self, err := domain.ParseAddress(cfg.Token.Address)
	if err != nil {
		return nil, fmt.Errorf("TOKEN_ADDRESS: %w", err)
	}
	healthChecks := map[string]httptransport.HealthCheck{}

	var db *sql.DB
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			return nil, err
		}
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		healthChecks["postgres"] = db.PingContext
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		healthChecks["redis"] = redisClient.Health
	}

	auditStore, auditPublisher, err := a.buildAudit(ctx, cfg, db, logger)
	if err != nil {
		return nil, err
	}

	// Identity
	var idStore identitystore.TxStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		idStore = identitystore.NewPostgres(db)
	case config.BackendRedis:
		idStore = identitystore.NewRedis(redisClient.Client)
	default:
		idStore = identitystore.NewInMemory()
	}
	topics, err := catalog.NewTopicSchemes(toClaimTopics(cfg.Token.RequiredTopics)...)
	if err != nil {
		return nil, fmt.Errorf("claim topics: %w", err)
	}
	issuers := catalog.NewTrustedIssuers()
	directory := onchainid.NewDirectory()
	a.identities, err = identityservice.New(idStore, topics, issuers, directory,
		identityservice.WithLogger(logger),
		identityservice.WithMetrics(identitymetrics.New(a.registry)),
		identityservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return nil, fmt.Errorf("identity service: %w", err)
	}
	a.trust, err = identityservice.NewTrust(topics, issuers, directory,
		identityservice.WithTrustLogger(logger),
		identityservice.WithTrustAuditPublisher(auditPublisher),
	)
	if err != nil {
		return nil, fmt.Errorf("trust service: %w", err)
	}

	// Ledger
	var l ledger.TxLedger = ledger.NewInMemory()
	if pool != nil {
		l = ledger.NewPostgres(pool)
	}
	holdings, ok := l.(ledger.HoldingsReader)
	if !ok {
		return nil, errors.New("ledger cannot list holdings")
	}

	// Compliance
	moduleCatalog := compliance.NewCatalog()
	for ref, m := range map[domain.Address]compliance.Module{
		supplyLimitRef:     modules.NewSupplyLimit().SeedFrom(l),
		maxBalanceRef:      modules.NewMaxBalance().SeedFrom(holdings),
		countryRestrictRef: modules.NewCountryRestrict(a.identities),
	} {
		if err := moduleCatalog.Register(ref, m); err != nil {
			return nil, err
		}
	}
	chainAuditor := compliancepublisher.New(auditStore,
		compliancepublisher.WithLogger(logger),
		compliancepublisher.WithMetrics(compliancepublisher.NewMetrics(a.registry)),
	)
	var chainStore compliance.ChainStore = compliancestore.NewInMemory()
	if db != nil {
		chainStore = compliancestore.NewPostgres(db)
	}
	a.compliance = compliance.NewRegistry(complianceRef, moduleCatalog,
		compliance.WithLogger(logger),
		compliance.WithAuditPublisher(chainAuditor),
		compliance.WithChainStore(chainStore),
	)
	if err := a.compliance.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore module chain: %w", err)
	}
	if cfg.Token.SupplyLimit != "" {
		if err := a.applySupplyLimit(ctx, cfg.Token.SupplyLimit); err != nil {
			return nil, fmt.Errorf("SUPPLY_LIMIT: %w", err)
		}
	}

	settings := models.Settings{
		Name:                cfg.Token.Name,
		Symbol:              cfg.Token.Symbol,
		Decimals:            cfg.Token.Decimals,
		Self:                self,
		IdentityRegistry:    identityRegistryRef,
		RequiredClaimTopics: toClaimTopics(cfg.Token.RequiredTopics),
	}
	a.tokens, err = tokenservice.New(settings, l, a.identities, a.compliance,
		tokenservice.WithLogger(logger),
		tokenservice.WithMetrics(tokenmetrics.New(a.registry)),
		tokenservice.WithAuditPublisher(auditPublisher),
		tokenservice.WithForeignAssets(ledger.NewVault()),
	)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	// Transport
	a.jwt = jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, jwttoken.APIAudience)
	routerCfg := httptransport.RouterConfig{
		Logger:       logger,
		Metrics:      metrics.New(a.registry),
		Gatherer:     a.registry,
		Validator:    jwttoken.NewJWTServiceAdapter(a.jwt),
		HealthChecks: healthChecks,
		RateLimit:    a.buildRateLimit(cfg.RateLimit, redisClient, logger),
		Token:        httptransport.NewTokenHandler(a.tokens, logger),
		Identity:     httptransport.NewIdentityHandler(a.identities, logger),
		Compliance:   httptransport.NewComplianceHandler(a.compliance, logger),
		Trust:        httptransport.NewTrustHandler(a.trust, logger),
	}
	if redisClient != nil {
		revocations := jwttoken.NewRevocationList(redisClient.Client)
		routerCfg.Revocations = revocations
		routerCfg.Auth = httptransport.NewAuthHandler(revocations, logger)
	}
	a.handler = httptransport.NewRouter(routerCfg)
	return a, nil
}

// applySupplyLimit binds the supply limit module with limit, or updates its
// parameters when a restored chain already carries it.
func (a *app) applySupplyLimit(ctx context.Context, limit string) error {
	params, err := json.Marshal(map[string]string{"limit": limit})
	if err != nil {
		return err
	}
	if !a.compliance.IsModuleBound(supplyLimitRef) {
		return a.compliance.AddModule(ctx, supplyLimitRef, params)
	}
	current, err := a.compliance.ModuleParameters(supplyLimitRef)
	if err != nil {
		return err
	}
	if bytes.Equal(current, params) {
		return nil
	}
	return a.compliance.SetModuleParameters(ctx, supplyLimitRef, params)
}

// buildAudit selects the audit store. With a database, events land in the
// outbox and a relay worker forwards them to Kafka when brokers are set.
func (a *app) buildAudit(ctx context.Context, cfg config.Server, db *sql.DB, logger *slog.Logger) (audit.Store, *publisher.Publisher, error) {
	var store audit.Store = auditmemory.NewInMemoryStore()
	if db != nil {
		outbox := auditpostgres.New(db)
		store = outbox
		if len(cfg.Kafka.Brokers) > 0 {
			client, err := kafkapublisher.NewClient(cfg.Kafka.Brokers, kgo.ClientID("tokenguard"))
			if err != nil {
				return nil, nil, err
			}
			a.closers = append(a.closers, client.Close)
			if cfg.Kafka.CreateTopic {
				topic := kafkapublisher.TopicSpec{
					Name:              cfg.Kafka.AuditTopic,
					Partitions:        cfg.Kafka.TopicPartitions,
					ReplicationFactor: cfg.Kafka.ReplicationFactor,
				}
				if err := kafkapublisher.EnsureTopic(ctx, client, topic); err != nil {
					return nil, nil, err
				}
			}
			relay := worker.NewWorker(outbox, kafkapublisher.New(client, cfg.Kafka.AuditTopic),
				worker.WithInterval(cfg.Audit.RelayInterval),
				worker.WithBatchSize(cfg.Audit.RelayBatchSize),
				worker.WithLogger(logger),
			)
			a.background = append(a.background, relay.Run)
		}
	} else if len(cfg.Kafka.Brokers) > 0 {
		return nil, nil, errors.New("KAFKA_BROKERS requires DATABASE_URL for the audit outbox")
	}
	p := publisher.NewPublisher(store,
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(logger),
	)
	a.closers = append(a.closers, p.Close)
	return store, p, nil
}

// buildRateLimit shares buckets through Redis when it is available.
func (a *app) buildRateLimit(cfg config.RateLimitConfig, client *redis.Client, logger *slog.Logger) *ratelimit.Middleware {
	if !cfg.Enabled {
		return nil
	}
	var store ratelimit.BucketStore = bucket.New()
	if client != nil {
		store = bucket.NewRedis(client.Client)
	}
	limits := map[ratelimitmodels.EndpointClass]ratelimitmodels.Limit{
		ratelimitmodels.ClassRead:  {RequestsPerWindow: cfg.Read, Window: cfg.Window},
		ratelimitmodels.ClassWrite: {RequestsPerWindow: cfg.Write, Window: cfg.Window},
		ratelimitmodels.ClassAgent: {RequestsPerWindow: cfg.Agent, Window: cfg.Window},
	}
	return ratelimit.New(store, limits, logger, ratelimit.WithMetrics(ratelimitmetrics.New(a.registry)))
}

func toClaimTopics(raw []uint64) []domain.ClaimTopic {
	out := make([]domain.ClaimTopic, len(raw))
	for i, t := range raw {
		out[i] = domain.ClaimTopic(t)
	}
	return out
}
