package task

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/urban-sims/microtraffic/clock"
	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/entity/grid"
	"github.com/urban-sims/microtraffic/entity/light"
	"github.com/urban-sims/microtraffic/entity/roadnet"
	"github.com/urban-sims/microtraffic/entity/vehicle"
	"github.com/urban-sims/microtraffic/telemetry"
	"github.com/urban-sims/microtraffic/utils/config"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代原来的全局变量
// 说明：持有网格、路网、各管理器、时钟、运行时配置与唯一的随机数引擎，
// 智能体在推进时以参数形式接收本上下文，不持有环境引用
type Context struct {

	// 时钟
	clock *clock.Clock

	// 占用网格
	grid entity.IGrid
	// 静态路网
	network entity.IRoadNetwork
	// 信号灯管理器
	lightManager entity.ILightManager
	// 车辆管理器
	vehicleManager entity.IVehicleManager

	// 全局随机数引擎，所有随机决策共用
	rand *randengine.Engine
	// 智能体ID分配器
	ids *entity.IDAllocator
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 本次运行的标识，随指标行落库
	runID string
	// 指标落库器，未配置输出时为nil
	sink *telemetry.Sink

	// 本拍快照缓存，两次Step之间保持不变
	snapshot *telemetry.Snapshot
}

// NewContext 创建新的仿真任务上下文
// 功能：校验配置并初始化仿真系统的所有组件
// 参数：c-配置对象
// 返回：初始化完成的Context实例，配置非法时返回error
func NewContext(c config.Config) (*Context, error) {
	ctx := &Context{}
	if err := ctx.Reset(c); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Reset 以新配置重建模型
// 功能：校验配置后重建全部组件，原状态全部丢弃
// 算法说明：
// 1. 配置校验失败时返回error且不改变现有状态
// 2. 网格尺寸必须覆盖路网最小包络
// 3. 静态智能体按建筑、信号灯、出生点的顺序上格
// 4. 配置了输出时打开指标库并登记新的运行标识
// 5. 采集初始快照（第0拍，无车辆）
func (ctx *Context) Reset(c config.Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	network := roadnet.New()
	if w, h := network.Extent(); c.Grid.Width < w || c.Grid.Height < h {
		return fmt.Errorf("grid %dx%d cannot contain road network extent %dx%d",
			c.Grid.Width, c.Grid.Height, w, h)
	}

	if ctx.sink != nil {
		if err := ctx.sink.Close(); err != nil {
			log.Errorf("close metrics sink: %v", err)
		}
		ctx.sink = nil
	}

	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	ctx.clock = clock.New(c.Control.Step)
	ctx.rand = randengine.New(c.Control.Seed)
	ctx.ids = entity.NewIDAllocator()
	ctx.grid = grid.New(c.Grid.Width, c.Grid.Height)
	ctx.network = network
	ctx.lightManager = light.NewManager()
	ctx.vehicleManager = vehicle.NewManager()

	ctx.placeStatics()

	if c.Output.DB != "" {
		sink, err := telemetry.OpenSink(c.Output.DB)
		if err != nil {
			return fmt.Errorf("open metrics sink: %w", err)
		}
		ctx.runID = uuid.NewString()
		if err := sink.RegisterRun(ctx.runID, telemetry.RunParams{
			SpawnRate:       c.Vehicle.SpawnRate,
			MinCount:        c.Vehicle.MinCount,
			MaxCount:        c.Vehicle.MaxCount,
			BreakdownChance: c.Vehicle.BreakdownChance,
			Seed:            c.Control.Seed,
			Ticks:           c.Control.Step.Total,
		}); err != nil {
			sink.Close()
			return fmt.Errorf("register run: %w", err)
		}
		ctx.sink = sink
		log.Infof("metrics sink open at %s, run %s", c.Output.DB, ctx.runID)
	}

	ctx.snapshot = telemetry.Collect(ctx)
	return nil
}

// placeStatics 放置静态智能体
// 说明：路网表已按放置优先级裁剪（出生点取代所在格的建筑），
// 此处仅依序分配编号并上格
func (ctx *Context) placeStatics() {
	ctx.network.Init(ctx.ids)
	for _, b := range ctx.network.Buildings() {
		if err := ctx.grid.Place(b, b.Position()); err != nil {
			log.Panicf("place building at %v: %v", b.Position(), err)
		}
	}
	ctx.lightManager.Init(ctx)
	for _, sp := range ctx.network.SpawnPoints() {
		if err := ctx.grid.Place(sp, sp.Position()); err != nil {
			log.Panicf("place spawn point %d at %v: %v", sp.SpawnID(), sp.Position(), err)
		}
	}
	ctx.vehicleManager.Init(ctx)

	log.Infof("statics placed: %d buildings, %d lights, %d spawn points",
		len(ctx.network.Buildings()), len(ctx.lightManager.Lights()), len(ctx.network.SpawnPoints()))
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Grid() entity.IGrid {
	return ctx.grid
}

func (ctx *Context) RoadNetwork() entity.IRoadNetwork {
	return ctx.network
}

func (ctx *Context) LightManager() entity.ILightManager {
	return ctx.lightManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) Rand() *randengine.Engine {
	return ctx.rand
}

func (ctx *Context) IDs() *entity.IDAllocator {
	return ctx.ids
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// RunID 获取本次运行的标识，未配置落库时为空串
func (ctx *Context) RunID() string {
	return ctx.runID
}

// Close 释放外部资源
func (ctx *Context) Close() {
	if ctx.sink != nil {
		if err := ctx.sink.Close(); err != nil {
			log.Errorf("close metrics sink: %v", err)
		}
		ctx.sink = nil
	}
}
