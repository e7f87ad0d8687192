package app

import (
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/app/components/profiling"
	"github.com/iotaledger/hive.go/app/components/shutdown"
	"github.com/iotaledger/zerostake/components/metrics"
	"github.com/iotaledger/zerostake/components/protocol"
	"github.com/iotaledger/zerostake/components/shielded"
	"github.com/iotaledger/zerostake/components/sporks"
	"github.com/iotaledger/zerostake/components/staking"
)

var (
	// Name of the app.
	Name = "zerostake"

	// Version of the app.
	Version = "0.1.0"
)

func App() *app.App {
	return app.New(Name, Version,
		app.WithInitComponent(InitComponent),
		app.WithComponents(
			shutdown.Component,
			profiling.Component,
			protocol.Component,
			sporks.Component,
			shielded.Component,
			staking.Component,
			metrics.Component,
		),
	)
}

var InitComponent *app.InitComponent

func init() {
	InitComponent = &app.InitComponent{
		Component: &app.Component{
			Name: "App",
		},
		NonHiddenFlags: []string{
			"config",
			"help",
			"version",
		},
	}
}
