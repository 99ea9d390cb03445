package vehicle

import (
	"github.com/urban-sims/microtraffic/clock"
	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/entity/grid"
	"github.com/urban-sims/microtraffic/entity/roadnet"
	"github.com/urban-sims/microtraffic/utils/config"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// testCtx 白盒测试用的最小上下文
// 说明：信号灯不走灯组状态机，测试直接在网格上放置固定状态的灯
type testCtx struct {
	clk *clock.Clock
	g   entity.IGrid
	net entity.IRoadNetwork
	vm  *VehicleManager
	rng *randengine.Engine
	ids *entity.IDAllocator
	rc  *config.RuntimeConfig
}

func (c *testCtx) Clock() *clock.Clock                  { return c.clk }
func (c *testCtx) Grid() entity.IGrid                   { return c.g }
func (c *testCtx) RoadNetwork() entity.IRoadNetwork     { return c.net }
func (c *testCtx) LightManager() entity.ILightManager   { return nil }
func (c *testCtx) VehicleManager() entity.IVehicleManager {
	return c.vm
}
func (c *testCtx) Rand() *randengine.Engine             { return c.rng }
func (c *testCtx) IDs() *entity.IDAllocator             { return c.ids }
func (c *testCtx) RuntimeConfig() *config.RuntimeConfig { return c.rc }

func newTestCtx(c config.Config) *testCtx {
	ids := entity.NewIDAllocator()
	net := roadnet.New()
	net.Init(ids)
	ctx := &testCtx{
		clk: clock.New(c.Control.Step),
		g:   grid.New(c.Grid.Width, c.Grid.Height),
		net: net,
		vm:  NewManager(),
		rng: randengine.New(c.Control.Seed),
		ids: ids,
		rc:  config.NewRuntimeConfig(c),
	}
	return ctx
}

// quietConfig 无故障、无自动生成的测试配置
func quietConfig() config.Config {
	c := config.Default()
	c.Vehicle.BreakdownChance = 0
	c.Vehicle.MinCount = 0
	c.Vehicle.SpawnRate = 0
	return c
}

// fakeLight 固定状态的信号灯
type fakeLight struct {
	id    entity.AgentID
	pos   entity.Position
	state entity.LightState
}

func (l *fakeLight) ID() entity.AgentID        { return l.id }
func (l *fakeLight) Kind() entity.AgentKind    { return entity.KindTrafficLight }
func (l *fakeLight) Position() entity.Position { return l.pos }
func (l *fakeLight) GroupID() int              { return 0 }
func (l *fakeLight) State() entity.LightState  { return l.state }

func placeLight(ctx *testCtx, pos entity.Position, state entity.LightState) *fakeLight {
	l := &fakeLight{id: ctx.ids.Next(), pos: pos, state: state}
	if err := ctx.g.Place(l, pos); err != nil {
		panic(err)
	}
	return l
}
