package app

import (
	"context"
	"fmt"

	"ndr-srv/config"
	configMinio "ndr-srv/config/minio"
	"ndr-srv/config/postgre"
	configRedis "ndr-srv/config/redis"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/model"
	"ndr-srv/internal/outreach"
	"ndr-srv/internal/outreach/provider"
	"ndr-srv/pkg/discord"
	"ndr-srv/pkg/encrypter"
	"ndr-srv/pkg/gateway"
	pkgKafka "ndr-srv/pkg/kafka"
	pkgLog "ndr-srv/pkg/log"
	"ndr-srv/pkg/ses"
)

const minioRetries = 3

// Connect opens every client the configuration enables. The returned cleanup
// closes them in reverse order and is safe to call after a partial failure.
func Connect(ctx context.Context, cfg *config.Config, l pkgLog.Logger) (Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (Deps, func(), error) {
		cleanup()
		return Deps{}, func() {}, err
	}

	d := Deps{
		Logger:            l,
		StoreDriver:       cfg.Store.Driver,
		RedisChannel:      cfg.Redis.EventChannel,
		StatsTTL:          cfg.Redis.StatsTTL,
		Metrics:           metrics.New(),
		ProviderTimeout:   cfg.Outreach.ProviderTimeout,
		ApprovalRequired:  ParseActionKinds(cfg.Action.ApprovalRequired),
		SchedulerInterval: cfg.Scheduler.Interval,
		SchedulerTimeout:  cfg.Scheduler.Timeout,
		ScanWorkers:       cfg.Scheduler.Workers,
	}

	enc, err := encrypter.New(cfg.Encrypter.Key)
	if err != nil {
		return fail(fmt.Errorf("encrypter: %w", err))
	}
	d.Encrypter = enc

	if cfg.Store.Driver == config.StoreDriverPostgres {
		db, err := postgre.Connect(ctx, cfg.Postgres)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = postgre.Disconnect(db) })
		d.DB = db
		l.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	}

	if cfg.Redis.Enabled {
		rc, err := configRedis.Connect(cfg.Redis)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = rc.Close() })
		d.Redis = rc
		l.Infof(ctx, "Redis connected successfully to %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}

	if cfg.MinIO.Enabled {
		mc, err := configMinio.ConnectWithRetry(ctx, cfg.MinIO, minioRetries)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = mc.Close() })
		d.Storage = mc
		l.Infof(ctx, "MinIO connected successfully to %s", cfg.MinIO.Endpoint)
	}

	if cfg.Kafka.Enabled {
		p, err := pkgKafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
		if err != nil {
			return fail(fmt.Errorf("kafka producer: %w", err))
		}
		closers = append(closers, func() { _ = p.Close() })
		d.EventProducer = p
		l.Infof(ctx, "Kafka producer ready on topic %s", cfg.Kafka.EventTopic)
	}

	// Discord is optional.
	if cfg.Discord.WebhookURL != "" {
		dc, err := discord.New(l, cfg.Discord.WebhookURL)
		if err != nil {
			l.Warnf(ctx, "Failed to initialize Discord webhook: %v", err)
		} else {
			closers = append(closers, func() { _ = dc.Close() })
			d.Discord = dc
		}
	}

	transport, err := newTransport(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	d.Transport = transport

	renderer, err := provider.NewTemplateRenderer(nil)
	if err != nil {
		return fail(err)
	}
	d.Renderer = renderer

	return d, cleanup, nil
}

func newTransport(ctx context.Context, cfg *config.Config) (outreach.Transport, error) {
	routes := map[model.Channel]outreach.Transport{}

	if cfg.Gateway.BaseURL != "" {
		client, err := gateway.New(gateway.Config{
			BaseURL: cfg.Gateway.BaseURL,
			APIKey:  cfg.Gateway.APIKey,
			Timeout: cfg.Outreach.ProviderTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("gateway: %w", err)
		}
		gw := provider.NewGateway(client)
		routes[model.ChannelSMS] = gw
		routes[model.ChannelWhatsApp] = gw
		routes[model.ChannelVoice] = gw
	}

	if cfg.SES.Enabled {
		sender, err := ses.New(ctx, ses.Config{
			Region:    cfg.SES.Region,
			FromEmail: cfg.SES.FromEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("ses: %w", err)
		}
		routes[model.ChannelEmail] = provider.NewEmail(sender, "")
	}

	return provider.NewRouter(routes), nil
}
