package strategy

import "battery-arbitrage/internal/model"

// Context is what a strategy sees for one hour of the walk.
type Context struct {
	Hour   int
	Price  float64
	SOCMWh float64
	Device model.DeviceSpec
}

type Strategy interface {
	Name() string
	Decide(ctx Context) model.Dispatch
}
