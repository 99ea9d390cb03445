package grid

import (
	"fmt"
	"sort"

	"github.com/urban-sims/microtraffic/entity"
)

// Grid 占用网格
// 功能：维护坐标到占用者集合的映射，是全部智能体共享的唯一可变资源
// 说明：结构上允许同格多占用（静态智能体与车辆可以共存），车辆间的
// 一格一车约束由移动策略保证，不在网格层强制
type Grid struct {
	width  int
	height int

	// 坐标到占用者集合的映射
	cells map[entity.Position]map[entity.AgentID]entity.IAgent
	// 占用者到坐标的反向索引
	where map[entity.AgentID]entity.Position
}

// New 创建占用网格
// 功能：初始化指定尺寸的空网格
// 参数：width-网格宽度 height-网格高度，均必须为正（由配置校验保证）
// 返回：初始化完成的网格实例
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		log.Panicf("grid size must be positive, got %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make(map[entity.Position]map[entity.AgentID]entity.IAgent),
		where:  make(map[entity.AgentID]entity.Position),
	}
}

// Width 获取网格宽度
func (g *Grid) Width() int {
	return g.width
}

// Height 获取网格高度
func (g *Grid) Height() int {
	return g.height
}

// Contains 判断坐标是否在网格范围内
// 参数：pos-待检坐标
// 返回：坐标位于[0,width)×[0,height)时为true
func (g *Grid) Contains(pos entity.Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// Place 放置智能体
// 功能：将智能体登记到指定坐标
// 参数：a-智能体 pos-目标坐标
// 返回：坐标越界时返回包装后的ErrOutOfBounds，否则nil
// 说明：同一智能体重复放置时先从原坐标摘除，保证反向索引一致
func (g *Grid) Place(a entity.IAgent, pos entity.Position) error {
	if !g.Contains(pos) {
		return fmt.Errorf("place agent %d at %v: %w", a.ID(), pos, entity.ErrOutOfBounds)
	}
	if old, ok := g.where[a.ID()]; ok {
		g.detach(a.ID(), old)
	}
	g.attach(a, pos)
	return nil
}

// Remove 移除智能体
// 功能：将智能体从网格上摘除
// 参数：a-智能体
// 说明：未登记的智能体为空操作
func (g *Grid) Remove(a entity.IAgent) {
	pos, ok := g.where[a.ID()]
	if !ok {
		return
	}
	g.detach(a.ID(), pos)
}

// MoveTo 原子迁移智能体
// 功能：将已登记的智能体迁移到新坐标
// 参数：a-智能体 pos-新坐标
// 返回：越界时返回包装后的ErrOutOfBounds且原登记不变，未登记时panic
// 说明：路网只产生界内候选格，越界在正确使用下不应出现，测试中视为缺陷信号
func (g *Grid) MoveTo(a entity.IAgent, pos entity.Position) error {
	old, ok := g.where[a.ID()]
	if !ok {
		log.Panicf("move agent %d (%v) that is not on the grid", a.ID(), a.Kind())
	}
	if !g.Contains(pos) {
		return fmt.Errorf("move agent %d to %v: %w", a.ID(), pos, entity.ErrOutOfBounds)
	}
	g.detach(a.ID(), old)
	g.attach(a, pos)
	return nil
}

// OccupantsAt 获取指定坐标的全部占用者
// 参数：pos-坐标
// 返回：占用者列表（按ID升序，保证遍历顺序确定）
func (g *Grid) OccupantsAt(pos entity.Position) []entity.IAgent {
	cell, ok := g.cells[pos]
	if !ok {
		return nil
	}
	out := make([]entity.IAgent, 0, len(cell))
	for _, a := range cell {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// HasMobileAt 判断坐标是否被可移动智能体占用
// 功能：检查指定坐标上是否存在车辆或维修车
// 参数：pos-坐标 except-被排除的对象（维修车查询目标格时传入目标车辆），nil时不排除
// 返回：存在未被排除的可移动占用者时为true
func (g *Grid) HasMobileAt(pos entity.Position, except entity.IAgent) bool {
	for _, a := range g.cells[pos] {
		if !a.Kind().IsMobile() {
			continue
		}
		if except != nil && a.ID() == except.ID() {
			continue
		}
		return true
	}
	return false
}

// LightAt 获取指定坐标上的信号灯
// 参数：pos-坐标
// 返回：灯实例与是否存在
func (g *Grid) LightAt(pos entity.Position) (entity.ITrafficLight, bool) {
	for _, a := range g.cells[pos] {
		if a.Kind() == entity.KindTrafficLight {
			return a.(entity.ITrafficLight), true
		}
	}
	return nil, false
}

// MobileAgents 获取全部可移动占用者
// 功能：返回网格上登记的全部车辆与维修车，用于占用一致性校验
// 返回：可移动智能体列表（按ID升序）
func (g *Grid) MobileAgents() []entity.IAgent {
	out := make([]entity.IAgent, 0)
	for id, pos := range g.where {
		for _, a := range g.cells[pos] {
			if a.ID() == id && a.Kind().IsMobile() {
				out = append(out, a)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (g *Grid) attach(a entity.IAgent, pos entity.Position) {
	cell, ok := g.cells[pos]
	if !ok {
		cell = make(map[entity.AgentID]entity.IAgent)
		g.cells[pos] = cell
	}
	cell[a.ID()] = a
	g.where[a.ID()] = pos
}

func (g *Grid) detach(id entity.AgentID, pos entity.Position) {
	if cell, ok := g.cells[pos]; ok {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, pos)
		}
	}
	delete(g.where, id)
}
