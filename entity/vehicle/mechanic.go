package vehicle

import (
	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/utils/container"
)

// Mechanic 维修车
// 功能：被派遣前往故障车辆所在格并就地维修的移动智能体
// 说明：与车辆走同一套候选逻辑，但始终无视信号灯，目标车辆格视为非障碍；
// 与目标曼哈顿距离恰为1时直接跳入目标格。系统中唯一合法的同格重叠
// 是维修期间维修车与目标车辆
type Mechanic struct {
	container.IncrementalItemBase
	mgr *VehicleManager

	id       entity.AgentID
	pos      entity.Position
	prev     entity.Position
	hasPrev  bool
	heading  entity.Direction
	spawnDir entity.Direction
	target   *Vehicle

	repairing     bool
	repairCounter int
	waiting       int
	steps         int
	active        bool
}

func (m *Mechanic) ID() entity.AgentID        { return m.id }
func (m *Mechanic) Kind() entity.AgentKind    { return entity.KindMechanic }
func (m *Mechanic) Position() entity.Position { return m.pos }

// TargetID 获取维修目标车辆ID
func (m *Mechanic) TargetID() entity.AgentID { return m.target.id }

// IsRepairing 判断是否正在维修（位于目标格）
func (m *Mechanic) IsRepairing() bool { return m.repairing }

func (m *Mechanic) IsActive() bool { return m.active }

// step 推进维修车一个节拍
// 算法说明：
// 1. 已在目标格则累计维修节拍，计数从到达后下一拍开始，
//    满额后恢复目标车辆并自我移除
// 2. 与目标距离恰为1时无条件跳入目标格
// 3. 其余情况走通常候选逻辑逼近目标，空集计一次等待
func (m *Mechanic) step(ctx entity.ITaskContext) {
	if !m.active {
		return
	}

	if m.pos == m.target.pos {
		if !m.repairing {
			m.repairing = true
			m.repairCounter = 0
		}
		m.repairCounter++
		if m.repairCounter >= repairTicks {
			m.mgr.finishRepair(ctx, m)
		}
		return
	}

	if m.pos.ManhattanTo(m.target.pos) == 1 {
		m.moveTo(ctx, m.target.pos)
		return
	}

	cands := candidates(ctx, moveQuery{
		pos:          m.pos,
		dest:         m.target.pos,
		firstMove:    m.steps == 0,
		spawnDir:     m.spawnDir,
		ignoreLights: true,
		passThrough:  m.target,
	})
	if len(cands) == 0 {
		m.waiting++
		return
	}
	m.moveTo(ctx, rank(ctx, m.pos, m.heading, m.target.pos, cands))
}

func (m *Mechanic) moveTo(ctx entity.ITaskContext, next entity.Position) {
	if d, ok := entity.DirectionBetween(m.pos, next); ok {
		m.heading = d
	}
	if err := ctx.Grid().MoveTo(m, next); err != nil {
		log.Panicf("mechanic %d move %v -> %v: %v", m.id, m.pos, next, err)
	}
	m.prev, m.hasPrev = m.pos, true
	m.pos = next
	m.waiting = 0
	m.steps++
}
