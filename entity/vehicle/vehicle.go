package vehicle

import (
	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/utils/container"
)

// Vehicle 车辆
// 功能：沿车道贪心逼近目的地的移动智能体
// 说明：幸福度随等待衰减、随移动恢复，过低转为愤怒并无视信号灯；
// 故障后冻结在原地等待维修车
type Vehicle struct {
	container.IncrementalItemBase
	mgr *VehicleManager

	id       entity.AgentID
	pos      entity.Position
	prev     entity.Position
	hasPrev  bool
	heading  entity.Direction
	spawnDir entity.Direction
	dest     entity.Position

	happiness int
	state     entity.VehicleState
	waiting   int
	steps     int
	broken    bool
	active    bool
}

func (v *Vehicle) ID() entity.AgentID        { return v.id }
func (v *Vehicle) Kind() entity.AgentKind    { return entity.KindVehicle }
func (v *Vehicle) Position() entity.Position { return v.pos }

// PreviousPosition 获取上一坐标，尚未移动过时ok为false
func (v *Vehicle) PreviousPosition() (entity.Position, bool) { return v.prev, v.hasPrev }

func (v *Vehicle) Heading() entity.Direction    { return v.heading }
func (v *Vehicle) Destination() entity.Position { return v.dest }
func (v *Vehicle) Happiness() int               { return v.happiness }
func (v *Vehicle) State() entity.VehicleState   { return v.state }
func (v *Vehicle) WaitingTicks() int            { return v.waiting }
func (v *Vehicle) CompletedSteps() int          { return v.steps }
func (v *Vehicle) IsBroken() bool               { return v.broken }
func (v *Vehicle) IsActive() bool               { return v.active }

// step 推进车辆一个节拍
// 算法说明：
// 1. 故障判定先于一切：命中后冻结并请求派遣维修车，本拍结束
// 2. 已故障车辆静止等待维修，不衰减幸福度
// 3. 已在目的地则下格完成并移除
// 4. 生成候选格并排序选格，空集则计一次等待
// 5. 移动成功后重置等待计数、恢复幸福度、刷新朝向与完成步数
// 6. 幸福度阈值驱动平静与愤怒互转，故障态不受影响
func (v *Vehicle) step(ctx entity.ITaskContext) {
	if !v.active {
		return
	}

	if !v.broken && ctx.Rand().PTrue(ctx.RuntimeConfig().All.Vehicle.BreakdownChance) {
		v.broken = true
		v.state = entity.VehicleBroken
		log.Debugf("vehicle %d broke down at %v", v.id, v.pos)
		ctx.VehicleManager().DispatchMechanic(ctx, v)
		return
	}
	if v.broken {
		return
	}

	if v.pos == v.dest {
		v.mgr.finishTrip(ctx, v)
		return
	}

	cands := candidates(ctx, moveQuery{
		pos:          v.pos,
		dest:         v.dest,
		firstMove:    v.steps == 0,
		spawnDir:     v.spawnDir,
		ignoreLights: v.state == entity.VehicleAngry,
	})
	if len(cands) == 0 {
		v.waiting++
		v.happiness = max(0, v.happiness-happinessDecay)
		v.updateState()
		if v.waiting == waitingAlertTicks+1 {
			log.Warnf("vehicle %d stuck at %v for %d ticks, happiness %d, heading %v, destination %v",
				v.id, v.pos, v.waiting, v.happiness, v.heading, v.dest)
		}
		return
	}

	next := rank(ctx, v.pos, v.heading, v.dest, cands)
	if d, ok := entity.DirectionBetween(v.pos, next); ok {
		v.heading = d
	}
	if err := ctx.Grid().MoveTo(v, next); err != nil {
		log.Panicf("vehicle %d move %v -> %v: %v", v.id, v.pos, next, err)
	}
	v.prev, v.hasPrev = v.pos, true
	v.pos = next
	v.waiting = 0
	v.happiness = min(100, v.happiness+happinessRecovery)
	v.steps++
	v.updateState()

	if v.pos == v.dest {
		v.mgr.finishTrip(ctx, v)
	}
}

// updateState 依据幸福度刷新情绪状态，仅在平静与愤怒之间互转
func (v *Vehicle) updateState() {
	if v.broken {
		return
	}
	if v.happiness < angerThreshold {
		v.state = entity.VehicleAngry
	} else {
		v.state = entity.VehicleCalm
	}
}
