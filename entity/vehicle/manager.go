package vehicle

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/utils/container"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// stepper 更新阶段统一推进的移动智能体
type stepper interface {
	step(ctx entity.ITaskContext)
}

// VehicleManager 车辆与维修车管理器
// 功能：持有全部在运行车辆与维修车，承担生成、派遣与节拍推进
// 说明：移除与新增经增量数组延迟到下一拍的准备阶段生效，
// 计数查询基于注册表即时反映本拍变化
type VehicleManager struct {
	vehicles  map[entity.AgentID]*Vehicle
	mechanics map[entity.AgentID]*Mechanic

	stepVehicles  *container.IncrementalArray[*Vehicle]
	stepMechanics *container.IncrementalArray[*Mechanic]

	totals entity.VehicleTotals
}

// NewManager 创建车辆管理器
func NewManager() *VehicleManager {
	return &VehicleManager{
		vehicles:      make(map[entity.AgentID]*Vehicle),
		mechanics:     make(map[entity.AgentID]*Mechanic),
		stepVehicles:  container.NewIncrementalArray[*Vehicle](),
		stepMechanics: container.NewIncrementalArray[*Mechanic](),
	}
}

// Init 初始化车辆管理器
// 说明：仿真启动时没有车辆，全部由生成阶段按配置投放
func (m *VehicleManager) Init(ctx entity.ITaskContext) {
	log.Infof("vehicle manager init: spawn_rate=%.2f count=[%d,%d] breakdown=%.4f",
		ctx.RuntimeConfig().All.Vehicle.SpawnRate,
		ctx.RuntimeConfig().All.Vehicle.MinCount,
		ctx.RuntimeConfig().All.Vehicle.MaxCount,
		ctx.RuntimeConfig().All.Vehicle.BreakdownChance)
}

// Get 获取指定车辆，无效ID时panic
func (m *VehicleManager) Get(id entity.AgentID) entity.IVehicle {
	v, ok := m.vehicles[id]
	if !ok {
		log.Panicf("no vehicle with id %d", id)
	}
	return v
}

// GetOrError 获取指定车辆，无效ID时返回error
func (m *VehicleManager) GetOrError(id entity.AgentID) (entity.IVehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("no vehicle with id %d", id)
	}
	return v, nil
}

// NewVehicle 在出生点创建车辆并放置上网格
// 说明：目的地从其余出生点中均匀抽取，保证目的地不等于出生点
func (m *VehicleManager) NewVehicle(ctx entity.ITaskContext, sp entity.ISpawnPoint) entity.IVehicle {
	others := lo.Filter(ctx.RoadNetwork().SpawnPoints(), func(o entity.ISpawnPoint, _ int) bool {
		return o.SpawnID() != sp.SpawnID()
	})
	dest := randengine.Choice(ctx.Rand(), others).Position()
	return m.NewVehicleAt(ctx, sp.Position(), sp.Direction(), dest)
}

// NewVehicleAt 在指定坐标创建车辆
// 参数：pos-初始坐标 heading-初始朝向（兼作首次移动的出生方向） dest-目的地
func (m *VehicleManager) NewVehicleAt(ctx entity.ITaskContext, pos entity.Position, heading entity.Direction, dest entity.Position) *Vehicle {
	v := &Vehicle{
		mgr:       m,
		id:        ctx.IDs().Next(),
		pos:       pos,
		heading:   heading,
		spawnDir:  heading,
		dest:      dest,
		happiness: happinessStart,
		state:     entity.VehicleCalm,
		active:    true,
	}
	if err := ctx.Grid().Place(v, pos); err != nil {
		log.Panicf("place vehicle %d at %v: %v", v.id, pos, err)
	}
	m.vehicles[v.id] = v
	m.stepVehicles.Add(v)
	m.totals.Spawned++
	log.Debugf("vehicle %d spawned at %v, destination %v", v.id, pos, dest)
	return v
}

// DispatchMechanic 故障车辆的维修车派遣入口
// 功能：从无车辆且无维修车占用的出生点中均匀抽取一个投放维修车
// 说明：无空闲出生点时静默不派遣，故障车辆无限期等待
func (m *VehicleManager) DispatchMechanic(ctx entity.ITaskContext, target entity.IVehicle) {
	m.totals.Breakdowns++

	tv, ok := target.(*Vehicle)
	if !ok {
		log.Panicf("dispatch target %d is not a managed vehicle", target.ID())
	}
	free := lo.Filter(ctx.RoadNetwork().SpawnPoints(), func(sp entity.ISpawnPoint, _ int) bool {
		return !ctx.Grid().HasMobileAt(sp.Position(), nil)
	})
	if len(free) == 0 {
		log.Infof("no free spawn point, vehicle %d stays broken at %v", target.ID(), target.Position())
		return
	}
	sp := randengine.Choice(ctx.Rand(), free)

	mc := &Mechanic{
		mgr:      m,
		id:       ctx.IDs().Next(),
		pos:      sp.Position(),
		heading:  sp.Direction(),
		spawnDir: sp.Direction(),
		target:   tv,
		active:   true,
	}
	if err := ctx.Grid().Place(mc, sp.Position()); err != nil {
		log.Panicf("place mechanic %d at %v: %v", mc.id, sp.Position(), err)
	}
	m.mechanics[mc.id] = mc
	m.stepMechanics.Add(mc)
	log.Debugf("mechanic %d dispatched from %v to vehicle %d at %v", mc.id, sp.Position(), tv.id, tv.pos)
}

// ActiveVehicles 获取全部在运行车辆（按ID升序）
func (m *VehicleManager) ActiveVehicles() []entity.IVehicle {
	out := make([]entity.IVehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ActiveMechanics 获取全部在运行维修车（按ID升序）
func (m *VehicleManager) ActiveMechanics() []entity.IMechanic {
	out := make([]entity.IMechanic, 0, len(m.mechanics))
	for _, mc := range m.mechanics {
		out = append(out, mc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// VehicleCount 统计在运行车辆数（不含维修车）
func (m *VehicleManager) VehicleCount() int { return len(m.vehicles) }

// MechanicCount 统计在运行维修车数
func (m *VehicleManager) MechanicCount() int { return len(m.mechanics) }

// Totals 获取累计计数
func (m *VehicleManager) Totals() entity.VehicleTotals { return m.totals }

// PrepareNode 准备阶段：应用上一节拍挂起的增删
func (m *VehicleManager) PrepareNode() {
	m.stepVehicles.Prepare()
	m.stepMechanics.Prepare()
}

// Update 更新阶段
// 算法说明：
// 1. 合并车辆与维修车为同一推进列表
// 2. 每拍重新乱序一次，消除低ID优先的位置偏差
// 3. 逐个推进，被同拍移除的个体由active标志跳过
func (m *VehicleManager) Update(ctx entity.ITaskContext) {
	steppers := make([]stepper, 0, m.stepVehicles.Len()+m.stepMechanics.Len())
	for _, v := range m.stepVehicles.Data() {
		steppers = append(steppers, v)
	}
	for _, mc := range m.stepMechanics.Data() {
		steppers = append(steppers, mc)
	}
	ctx.Rand().Shuffle(len(steppers), func(i, j int) {
		steppers[i], steppers[j] = steppers[j], steppers[i]
	})
	for _, s := range steppers {
		s.step(ctx)
	}
}

// finishTrip 车辆到达目的地后的移除
func (m *VehicleManager) finishTrip(ctx entity.ITaskContext, v *Vehicle) {
	ctx.Grid().Remove(v)
	v.active = false
	delete(m.vehicles, v.id)
	m.stepVehicles.Remove(v)
	m.totals.Completed++
	log.Debugf("vehicle %d arrived at %v after %d steps", v.id, v.pos, v.steps)
}

// finishRepair 维修完成：恢复目标车辆并移除维修车
func (m *VehicleManager) finishRepair(ctx entity.ITaskContext, mc *Mechanic) {
	t := mc.target
	t.broken = false
	t.state = entity.VehicleCalm
	t.happiness = happinessStart
	m.totals.Repairs++

	ctx.Grid().Remove(mc)
	mc.active = false
	delete(m.mechanics, mc.id)
	m.stepMechanics.Remove(mc)
	log.Debugf("mechanic %d repaired vehicle %d at %v", mc.id, t.id, t.pos)
}
