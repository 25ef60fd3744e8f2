package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-bazaar/internal/driver"
	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/listener"
	"github.com/pixil98/go-bazaar/internal/market"
	"github.com/pixil98/go-bazaar/internal/player"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-bazaar/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	stores, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, fmt.Errorf("creating stores: %w", err)
	}

	worldState := world.NewState()
	pricing := economy.NewPricing(cfg.Market.tuning())
	ledger := world.NewPurse(cfg.Market.purseOverflow())
	factory := &market.MintFactory{}

	marketManager, err := market.NewManager(stores.Vendors, stores.VendorState, worldState, nats,
		func(id storage.Identifier, spec *market.VendorSpec) (*market.VendorInstance, error) {
			return market.NewVendorInstance(id, spec, pricing, ledger, factory, cfg.Market.expiryTicks(), cfg.Market.decayTuning())
		})
	if err != nil {
		return nil, fmt.Errorf("creating market manager: %w", err)
	}

	playerManager := player.NewManager(stores.Characters, stores.Races, stores.Goods, worldState, marketManager, nats, storage.Identifier(cfg.Market.DefaultRoom))
	connManager := listener.NewConnectionManager(playerManager)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(connManager)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	// Validate() already vetted the duration
	tick, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}

	tickDriver := driver.NewTickDriver([]driver.Manager{
		marketManager,
	}, driver.WithTickLength(tick))

	return service.WorkerList{
		"nats":      nats,
		"driver":    tickDriver,
		"listeners": &listeners,
	}, nil
}
