package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/server"
	"github.com/go-home-io/garage/settings"
	"github.com/go-home-io/garage/systems"
	"github.com/go-home-io/garage/systems/bus"
	"github.com/go-home-io/garage/systems/connection"
	"github.com/go-home-io/garage/systems/inventory"
	"github.com/go-home-io/garage/systems/sdk"
	"github.com/go-home-io/garage/systems/session"
	"github.com/go-home-io/garage/systems/state"
	"github.com/jessevdk/go-flags"
)

func main() {
	options := &settings.StartUpOptions{}
	_, err := flags.Parse(options)
	if err != nil {
		if e, ok := err.(*flags.Error); ok && flags.ErrHelp == e.Type {
			os.Exit(0)
		}

		os.Exit(1)
	}

	s, err := settings.Load(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %s\n", err.Error())
		os.Exit(1)
	}

	log := s.SystemLogger()
	log.Info("Starting go-home garage", common.LogNodeToken, s.NodeID())

	st := state.NewSession(s.FanOut().Publish)

	coordinator := connection.NewCoordinator(&connection.ConstructCoordinator{
		SDK: sdk.NewSimulator(&sdk.ConstructSimulator{
			Logger:   s.SystemLoggerFor(systems.SysSDK.String()),
			Settings: s.SDKSettings(),
		}),
		State:  st,
		Logger: log,
	})

	projector := inventory.NewProjector(&inventory.ConstructProjector{
		Connection: coordinator,
		State:      st,
		Logger:     s.SystemLoggerFor(systems.SysInventory.String()),
		Settings:   s.InventorySettings(),
		Cron:       s.Cron(),
	})

	controller := session.NewController(&session.ConstructController{
		Connection: coordinator,
		Inventory:  projector,
		State:      st,
		Logger:     log,
		Settings:   s.AppSettings(),
	})

	var stateBus providers.IBusProvider
	var publisher *bus.StatePublisher
	if nil != s.BusSettings() {
		stateBus, err = bus.NewServiceBusProvider(&bus.ConstructBus{
			Settings: s.BusSettings(),
			Logger:   s.SystemLoggerFor(systems.SysBus.String()),
			NodeID:   s.NodeID(),
		})
		if err != nil {
			log.Fatal("Failed to connect to the state bus", err)
		}

		publisher = bus.NewStatePublisher(&bus.ConstructStatePublisher{
			Bus:    stateBus,
			FanOut: s.FanOut(),
			Logger: s.SystemLoggerFor(systems.SysBus.String()),
			Prefix: s.BusSettings().Prefix,
		})
		publisher.Start()
	}

	srv := server.NewServer(&server.ConstructServer{
		Settings:   s,
		State:      st,
		Session:    controller,
		Connection: coordinator,
		Inventory:  projector,
		Bus:        stateBus,
	})
	srv.Start()

	ctx, cancel := context.WithCancel(context.Background())
	go controller.CheckInitialState(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("Received stop command, exiting")
	cancel()

	shutdown, done := context.WithTimeout(context.Background(), s.AppSettings().ShutdownGraceTime)
	defer done()

	if err := srv.Stop(shutdown); err != nil {
		log.Error("Failed to stop server", err)
	}

	projector.StopRefresh()
	s.Cron().Stop()
	coordinator.StopScanning()
	coordinator.DisconnectFromLock(shutdown) // nolint: errcheck

	if nil != publisher {
		publisher.Stop()
		stateBus.Close()
	}
}
