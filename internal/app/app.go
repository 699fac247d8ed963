// Package app assembles repositories and usecases for the api and scheduler binaries.
package app

import (
	"database/sql"
	"errors"
	"time"

	"ndr-srv/config"
	"ndr-srv/internal/action"
	actionRepository "ndr-srv/internal/action/repository"
	actionMemory "ndr-srv/internal/action/repository/memory"
	actionPostgres "ndr-srv/internal/action/repository/postgre"
	actionUseCase "ndr-srv/internal/action/usecase"
	"ndr-srv/internal/alert"
	alertUseCase "ndr-srv/internal/alert/usecase"
	"ndr-srv/internal/archive"
	archiveMinio "ndr-srv/internal/archive/minio"
	"ndr-srv/internal/engine"
	engineUseCase "ndr-srv/internal/engine/usecase"
	"ndr-srv/internal/event"
	eventKafka "ndr-srv/internal/event/kafka"
	eventRedis "ndr-srv/internal/event/redis"
	"ndr-srv/internal/metrics"
	"ndr-srv/internal/model"
	"ndr-srv/internal/ndr"
	ndrRepository "ndr-srv/internal/ndr/repository"
	ndrMemory "ndr-srv/internal/ndr/repository/memory"
	ndrPostgres "ndr-srv/internal/ndr/repository/postgre"
	ndrUseCase "ndr-srv/internal/ndr/usecase"
	"ndr-srv/internal/outreach"
	outreachRepository "ndr-srv/internal/outreach/repository"
	outreachMemory "ndr-srv/internal/outreach/repository/memory"
	outreachPostgres "ndr-srv/internal/outreach/repository/postgre"
	outreachUseCase "ndr-srv/internal/outreach/usecase"
	"ndr-srv/internal/rule"
	ruleRepository "ndr-srv/internal/rule/repository"
	ruleMemory "ndr-srv/internal/rule/repository/memory"
	rulePostgres "ndr-srv/internal/rule/repository/postgre"
	ruleUseCase "ndr-srv/internal/rule/usecase"
	"ndr-srv/internal/scheduler"
	schedulerRepository "ndr-srv/internal/scheduler/repository"
	schedulerMemory "ndr-srv/internal/scheduler/repository/memory"
	schedulerPostgres "ndr-srv/internal/scheduler/repository/postgre"
	schedulerUseCase "ndr-srv/internal/scheduler/usecase"
	"ndr-srv/internal/shipment"
	shipmentMemory "ndr-srv/internal/shipment/repository/memory"
	shipmentPostgres "ndr-srv/internal/shipment/repository/postgre"
	"ndr-srv/pkg/discord"
	"ndr-srv/pkg/encrypter"
	pkgKafka "ndr-srv/pkg/kafka"
	pkgLog "ndr-srv/pkg/log"
	pkgMinio "ndr-srv/pkg/minio"
	pkgRedis "ndr-srv/pkg/redis"
)

// Deps are the connected clients. Everything except Logger and StoreDriver may be nil
// and the matching feature is then switched off.
type Deps struct {
	Logger      pkgLog.Logger
	StoreDriver string
	DB          *sql.DB

	Redis           pkgRedis.IRedis
	RedisChannel    string
	StatsTTL        time.Duration
	EventProducer   pkgKafka.Producer
	Storage         pkgMinio.MinIO
	Discord         discord.IDiscord
	Encrypter       encrypter.Encrypter
	Metrics         *metrics.Metrics
	Transport       outreach.Transport
	Renderer        outreach.Renderer
	ProviderTimeout time.Duration

	// ApprovalRequired adds approval to action kinds on top of RTO.
	ApprovalRequired []model.ActionKind

	SchedulerInterval time.Duration
	SchedulerTimeout  time.Duration
	ScanWorkers       int
}

type UseCases struct {
	Rule      rule.UseCase
	NDR       ndr.UseCase
	Action    action.UseCase
	Outreach  outreach.UseCase
	Engine    engine.UseCase
	Scheduler scheduler.UseCase
	Alert     alert.UseCase
	Store     shipment.Store
	Publisher event.Publisher
}

type repositories struct {
	rule      ruleRepository.Repository
	ndr       ndrRepository.Repository
	action    actionRepository.Repository
	outreach  outreachRepository.Repository
	scheduler schedulerRepository.Repository
	store     shipment.Store
}

func newRepositories(d Deps) (repositories, error) {
	switch d.StoreDriver {
	case config.StoreDriverPostgres:
		if d.DB == nil {
			return repositories{}, errors.New("app: postgres store driver requires a database")
		}
		return repositories{
			rule:      rulePostgres.New(d.Logger, d.DB),
			ndr:       ndrPostgres.New(d.Logger, d.DB),
			action:    actionPostgres.New(d.Logger, d.DB),
			outreach:  outreachPostgres.New(d.Logger, d.DB),
			scheduler: schedulerPostgres.New(d.Logger, d.DB),
			store:     shipmentPostgres.New(d.Logger, d.DB),
		}, nil
	case config.StoreDriverMemory:
		return repositories{
			rule:      ruleMemory.New(),
			ndr:       ndrMemory.New(),
			action:    actionMemory.New(),
			outreach:  outreachMemory.New(),
			scheduler: schedulerMemory.New(),
			store:     shipmentMemory.New(),
		}, nil
	}
	return repositories{}, errors.New("app: unknown store driver " + d.StoreDriver)
}

// Build wires every usecase. It starts no goroutines.
func Build(d Deps) (*UseCases, error) {
	if d.Logger == nil {
		return nil, errors.New("app: logger is required")
	}
	repos, err := newRepositories(d)
	if err != nil {
		return nil, err
	}

	var pubs []event.Publisher
	if d.EventProducer != nil {
		pubs = append(pubs, eventKafka.New(d.EventProducer))
	}
	if d.Redis != nil {
		pubs = append(pubs, eventRedis.New(d.Redis, d.RedisChannel))
	}
	pub := event.Fanout(pubs...)

	var archiver archive.Archiver
	if d.Storage != nil {
		archiver = archiveMinio.New(d.Logger, d.Storage)
	}

	alertUC := alertUseCase.New(d.Logger, d.Discord)

	ruleUC := ruleUseCase.New(d.Logger, repos.rule)
	ndrUC := ndrUseCase.New(d.Logger, repos.ndr, ndrUseCase.Options{
		Publisher: pub,
		Archiver:  archiver,
		Alert:     alertUC,
		Cache:     d.Redis,
		StatsTTL:  d.StatsTTL,
		Pending:   actionUseCase.NewPendingCanceller(d.Logger, repos.action, pub),
	})
	actionUC := actionUseCase.New(d.Logger, repos.action, ndrUC, action.NewPolicy(d.ApprovalRequired...), pub, alertUC)
	outreachUC := outreachUseCase.New(d.Logger, repos.outreach, ndrUC, actionUC, repos.store, outreachUseCase.Options{
		Transport:       d.Transport,
		Renderer:        d.Renderer,
		Encrypter:       d.Encrypter,
		ProviderTimeout: d.ProviderTimeout,
		Metrics:         d.Metrics,
	})
	engineUC := engineUseCase.New(d.Logger, ruleUC, ndrUC, actionUC, outreachUC, repos.store, engineUseCase.Options{
		Workers: d.ScanWorkers,
		Metrics: d.Metrics,
	})
	schedulerUC := schedulerUseCase.New(d.Logger, repos.scheduler, engineUC, schedulerUseCase.Options{
		Interval:  d.SchedulerInterval,
		Timeout:   d.SchedulerTimeout,
		Publisher: pub,
		Alert:     alertUC,
		Metrics:   d.Metrics,
	})

	return &UseCases{
		Rule:      ruleUC,
		NDR:       ndrUC,
		Action:    actionUC,
		Outreach:  outreachUC,
		Engine:    engineUC,
		Scheduler: schedulerUC,
		Alert:     alertUC,
		Store:     repos.store,
		Publisher: pub,
	}, nil
}

// ParseActionKinds keeps the valid kinds of a configured list.
func ParseActionKinds(raw []string) []model.ActionKind {
	var kinds []model.ActionKind
	for _, s := range raw {
		if k := model.ActionKind(s); k.IsValid() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
